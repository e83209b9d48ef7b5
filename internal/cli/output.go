package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// Summary is the host-facing digest of a compiled program.
type Summary struct {
	PatchID       string `json:"patch_id" yaml:"patch_id"`
	PatchRevision int64  `json:"patch_revision" yaml:"patch_revision"`
	IRVersion     string `json:"ir_version" yaml:"ir_version"`
	Seed          int64  `json:"seed" yaml:"seed"`
	Digest        string `json:"digest" yaml:"digest"`

	TimeModel string `json:"time_model" yaml:"time_model"`

	SigNodes   int `json:"sig_nodes" yaml:"sig_nodes"`
	FieldNodes int `json:"field_nodes" yaml:"field_nodes"`
	EventNodes int `json:"event_nodes" yaml:"event_nodes"`
	Consts     int `json:"consts" yaml:"consts"`
	Slots      int `json:"slots" yaml:"slots"`
	StateCells int `json:"state_cells" yaml:"state_cells"`
	Domains    int `json:"domains" yaml:"domains"`
	Sinks      int `json:"sinks" yaml:"sinks"`
	Steps      int `json:"steps" yaml:"steps"`

	StepKinds map[string]int `json:"step_kinds" yaml:"step_kinds"`
}

// Summarize builds the summary of a program.
func Summarize(p *ir.CompiledProgram) (*Summary, error) {
	digest, err := ir.Digest(p)
	if err != nil {
		return nil, err
	}
	kinds := make(map[string]int)
	for _, s := range p.Schedule.Steps {
		kinds[string(s.Kind)]++
	}
	return &Summary{
		PatchID:       p.PatchID,
		PatchRevision: p.PatchRevision,
		IRVersion:     p.IRVersion,
		Seed:          p.Seed,
		Digest:        digest,
		TimeModel:     string(p.TimeModel.Kind),
		SigNodes:      len(p.Sig),
		FieldNodes:    len(p.Field),
		EventNodes:    len(p.Event),
		Consts:        len(p.Consts),
		Slots:         p.NumSlots,
		StateCells:    len(p.StateLayout),
		Domains:       len(p.Domains),
		Sinks:         len(p.Sinks),
		Steps:         len(p.Schedule.Steps),
		StepKinds:     kinds,
	}, nil
}

// Render writes the summary in the requested format.
func (s *Summary) Render(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		return yaml.NewEncoder(w).Encode(s)
	default:
		fmt.Fprintf(w, "patch:      %s@%d\n", s.PatchID, s.PatchRevision)
		fmt.Fprintf(w, "ir version: %s  seed: %d\n", s.IRVersion, s.Seed)
		fmt.Fprintf(w, "digest:     %s\n", s.Digest)
		fmt.Fprintf(w, "time model: %s\n", s.TimeModel)
		fmt.Fprintf(w, "nodes:      sig=%d field=%d event=%d\n", s.SigNodes, s.FieldNodes, s.EventNodes)
		fmt.Fprintf(w, "layout:     consts=%d slots=%d state=%d domains=%d sinks=%d\n",
			s.Consts, s.Slots, s.StateCells, s.Domains, s.Sinks)
		fmt.Fprintf(w, "schedule:   %d steps\n", s.Steps)
		kinds := make([]string, 0, len(s.StepKinds))
		for k := range s.StepKinds {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-24s %d\n", k, s.StepKinds[k])
		}
		return nil
	}
}
