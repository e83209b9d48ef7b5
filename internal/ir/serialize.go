package ir

import (
	"encoding/json"
	"fmt"
	"sort"
)

// StepBlockEntry is one step→block pair of the flattened debug index.
type StepBlockEntry struct {
	Step  StepID `json:"step"`
	Block string `json:"block"`
}

// SlotBlockEntry is one slot→block pair of the flattened debug index.
type SlotBlockEntry struct {
	Slot  SlotID `json:"slot"`
	Block string `json:"block"`
}

// SerializedDebugIndex is the interchange form of DebugIndex: plain ordered
// key/value lists instead of keyed lookups. Steps are ordered by step ID,
// slots by slot index.
type SerializedDebugIndex struct {
	Steps []StepBlockEntry `json:"steps"`
	Slots []SlotBlockEntry `json:"slots"`
}

// SerializedProgram is the interchange-safe form of CompiledProgram. It
// matches CompiledProgram one-to-one except keyed lookups become ordered
// key/value lists.
type SerializedProgram struct {
	IRVersion     string `json:"ir_version"`
	PatchID       string `json:"patch_id"`
	PatchRevision int64  `json:"patch_revision"`
	Seed          int64  `json:"seed"`

	TimeModel TimeModel `json:"time_model"`

	Types []TypeDesc `json:"types"`

	Sig   []SigNode   `json:"sig"`
	Field []FieldNode `json:"field"`
	Event []EventNode `json:"event"`

	Consts ConstPool `json:"consts"`

	Slots    []SlotMeta `json:"slots"`
	NumSlots int        `json:"num_slots"`

	StateLayout []StateCell `json:"state_layout"`

	Domains []DomainDef      `json:"domains"`
	Cameras []CameraDef      `json:"cameras"`
	Sinks   []RenderSink     `json:"sinks"`
	Buses   []BusDef         `json:"buses"`
	Chains  []TransformChain `json:"chains"`

	SigBindings   []SlotBinding `json:"sig_bindings"`
	FieldBindings []SlotBinding `json:"field_bindings"`
	EventBindings []SlotBinding `json:"event_bindings"`

	Schedule Schedule `json:"schedule"`

	Outputs []DeclaredOutput `json:"outputs"`

	Debug SerializedDebugIndex `json:"debug"`
}

// Serialize converts a compiled program into its interchange-safe form.
// Total over any well-formed CompiledProgram: it never fails.
func Serialize(p *CompiledProgram) *SerializedProgram {
	sp := &SerializedProgram{
		IRVersion:     p.IRVersion,
		PatchID:       p.PatchID,
		PatchRevision: p.PatchRevision,
		Seed:          p.Seed,
		TimeModel:     p.TimeModel,
		Types:         p.Types,
		Sig:           p.Sig,
		Field:         p.Field,
		Event:         p.Event,
		Consts:        p.Consts,
		Slots:         p.Slots,
		NumSlots:      p.NumSlots,
		StateLayout:   p.StateLayout,
		Domains:       p.Domains,
		Cameras:       p.Cameras,
		Sinks:         p.Sinks,
		Buses:         p.Buses,
		Chains:        p.Chains,
		SigBindings:   p.SigBindings,
		FieldBindings: p.FieldBindings,
		EventBindings: p.EventBindings,
		Schedule:      p.Schedule,
		Outputs:       p.Outputs,
		Debug:         flattenDebugIndex(p.Debug),
	}
	return sp
}

// Deserialize reconstructs a CompiledProgram, rebuilding the keyed debug
// lookups from the ordered lists.
func Deserialize(sp *SerializedProgram) *CompiledProgram {
	p := &CompiledProgram{
		IRVersion:     sp.IRVersion,
		PatchID:       sp.PatchID,
		PatchRevision: sp.PatchRevision,
		Seed:          sp.Seed,
		TimeModel:     sp.TimeModel,
		Types:         sp.Types,
		Sig:           sp.Sig,
		Field:         sp.Field,
		Event:         sp.Event,
		Consts:        sp.Consts,
		Slots:         sp.Slots,
		NumSlots:      sp.NumSlots,
		StateLayout:   sp.StateLayout,
		Domains:       sp.Domains,
		Cameras:       sp.Cameras,
		Sinks:         sp.Sinks,
		Buses:         sp.Buses,
		Chains:        sp.Chains,
		SigBindings:   sp.SigBindings,
		FieldBindings: sp.FieldBindings,
		EventBindings: sp.EventBindings,
		Schedule:      sp.Schedule,
		Outputs:       sp.Outputs,
		Debug:         NewDebugIndex(),
	}
	for _, e := range sp.Debug.Steps {
		p.Debug.StepBlocks[e.Step] = e.Block
	}
	for _, e := range sp.Debug.Slots {
		p.Debug.SlotBlocks[e.Slot] = e.Block
	}
	return p
}

// flattenDebugIndex converts the keyed lookups to ordered lists. Steps sort
// lexicographically by step ID, slots numerically; both orders are pure
// functions of the content, never of map iteration order.
func flattenDebugIndex(d DebugIndex) SerializedDebugIndex {
	out := SerializedDebugIndex{
		Steps: make([]StepBlockEntry, 0, len(d.StepBlocks)),
		Slots: make([]SlotBlockEntry, 0, len(d.SlotBlocks)),
	}
	for id, block := range d.StepBlocks {
		out.Steps = append(out.Steps, StepBlockEntry{Step: id, Block: block})
	}
	sort.Slice(out.Steps, func(i, j int) bool { return out.Steps[i].Step < out.Steps[j].Step })
	for slot, block := range d.SlotBlocks {
		out.Slots = append(out.Slots, SlotBlockEntry{Slot: slot, Block: block})
	}
	sort.Slice(out.Slots, func(i, j int) bool { return out.Slots[i].Slot < out.Slots[j].Slot })
	return out
}

// EncodeProgram serializes a compiled program to UTF-8 JSON text. Compact
// and pretty-printed encodings carry identical semantic content; both decode
// to the same program.
func EncodeProgram(p *CompiledProgram, pretty bool) ([]byte, error) {
	sp := Serialize(p)
	if pretty {
		return json.MarshalIndent(sp, "", "  ")
	}
	return json.Marshal(sp)
}

// DecodeProgram parses UTF-8 JSON text produced by EncodeProgram.
func DecodeProgram(data []byte) (*CompiledProgram, error) {
	var sp SerializedProgram
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	if sp.IRVersion != IRVersion {
		return nil, fmt.Errorf("decode program: unsupported ir_version %q (want %q)", sp.IRVersion, IRVersion)
	}
	return Deserialize(&sp), nil
}

// Digest computes the content-addressed digest of a program over its
// compact encoding.
func Digest(p *CompiledProgram) (string, error) {
	data, err := EncodeProgram(p, false)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return ProgramDigest(data), nil
}
