package ir

// TimeModelKind discriminates the declared time model.
type TimeModelKind string

const (
	TimeModelFinite   TimeModelKind = "finite"
	TimeModelCyclic   TimeModelKind = "cyclic"
	TimeModelInfinite TimeModelKind = "infinite"
)

// CycleMode describes what a cyclic model does at the period boundary.
type CycleMode string

const (
	CycleLoop     CycleMode = "loop"
	CyclePingPong CycleMode = "pingPong"
)

// TimeModel declares how externally supplied absolute time maps to model
// time, phase and progress. Exactly one timeDerive step per schedule
// consumes it; no other step may write the derived slots.
type TimeModel struct {
	Kind TimeModelKind `json:"kind"`

	// DurationMs applies to finite models.
	DurationMs float64 `json:"duration_ms,omitempty"`

	// PeriodMs and Mode apply to cyclic models.
	PeriodMs float64   `json:"period_ms,omitempty"`
	Mode     CycleMode `json:"mode,omitempty"`

	// WindowMs applies to infinite models.
	WindowMs float64 `json:"window_ms,omitempty"`
}

// DefaultTimeModel is the model used when a patch declares none.
func DefaultTimeModel() TimeModel {
	return TimeModel{Kind: TimeModelInfinite, WindowMs: 10000}
}

// SinkKind names a render sink variant.
type SinkKind string

const (
	SinkInstances2D SinkKind = "instances2d"
	SinkInstances3D SinkKind = "instances3d"
	SinkPaths2D     SinkKind = "paths2d"
)

// Well-known render sink input names. Which inputs a sink kind requires is
// the concern of per-block lowering; the compiler only consumes what is
// present.
const (
	SinkInputDomain    = "domain"
	SinkInputPositions = "positions"
	SinkInputRadius    = "radius"
	SinkInputColor     = "color"
	SinkInputCamera    = "camera"
	SinkInputPaths     = "paths"
	SinkInputMesh      = "mesh"
)

// SinkInput is one logical input binding of a render sink.
//
// World decides how the schedule compiler consumes it: a field input gets a
// materialize step before use, a signal input is read directly from its
// slot, a special input (domain, camera) is a handle reference.
type SinkInput struct {
	Name string   `json:"name"`
	Slot SlotID   `json:"slot"`
	Type TypeDesc `json:"type"`

	// Field is the field-table node bound to the slot, present only for
	// field-world inputs. The schedule compiler needs it to emit the
	// materialize step.
	Field FieldNodeID `json:"field,omitempty"`

	// Domain is the domain the field input is evaluated over, present
	// only for field-world inputs.
	Domain DomainID `json:"domain,omitempty"`
}

// RenderSink is a declared consumer of materialized data. Declared once per
// sink block; consumed exclusively by the schedule compiler.
type RenderSink struct {
	Index  int         `json:"index"`
	Kind   SinkKind    `json:"kind"`
	Inputs []SinkInput `json:"inputs"`

	Block string `json:"block,omitempty"`
}

// Input returns the named input and whether it is present.
func (s *RenderSink) Input(name string) (SinkInput, bool) {
	for _, in := range s.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return SinkInput{}, false
}

// DeclaredOutput is one externally visible output of a compiled program.
type DeclaredOutput struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"` // e.g. "renderTree"
	Slot  SlotID `json:"slot"`
	Label string `json:"label,omitempty"`
}
