package ir

// DebugIndex maps build artifacts back to the source blocks that produced
// them. Purely diagnostic: hosts use it to highlight the offending block.
//
// The keyed lookups are hash maps internally; serialization flattens them to
// ordered key/value lists. Never rely on Go map iteration order when
// consuming this index.
type DebugIndex struct {
	// StepBlocks maps schedule step ID to source block ID.
	StepBlocks map[StepID]string `json:"-"`

	// SlotBlocks maps value slot to source block ID.
	SlotBlocks map[SlotID]string `json:"-"`
}

// NewDebugIndex returns an empty index with allocated maps.
func NewDebugIndex() DebugIndex {
	return DebugIndex{
		StepBlocks: make(map[StepID]string),
		SlotBlocks: make(map[SlotID]string),
	}
}

// BuilderProgram is the frozen snapshot a Builder produces. It is the sole
// input of the schedule compiler and is never mutated after Build().
//
// State cells carry symbolic IDs only; stateful nodes still reference them
// symbolically and StateCell.Offset is unresolved until schedule
// compilation.
type BuilderProgram struct {
	PatchID       string `json:"patch_id"`
	PatchRevision int64  `json:"patch_revision"`
	Seed          int64  `json:"seed"`

	TimeModel TimeModel `json:"time_model"`

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

	Outputs []DeclaredOutput `json:"outputs"`
}

// CompiledProgram is the compiler's output boundary: a versioned, seeded,
// patch-identified snapshot a runtime replays every frame.
//
// It contains keyed lookup structures (the debug index) and so is not
// directly interchange-safe; use Serialize for that.
type CompiledProgram struct {
	IRVersion     string `json:"ir_version"`
	PatchID       string `json:"patch_id"`
	PatchRevision int64  `json:"patch_revision"`
	Seed          int64  `json:"seed"`

	TimeModel TimeModel `json:"time_model"`

	// Types is the deduplicated table of every distinct TypeDesc observed
	// across the node tables, in first-seen order. Diagnostic and host
	// tooling aid; nodes embed their own TypeDesc.
	Types []TypeDesc `json:"types"`

	Sig   []SigNode   `json:"sig"`
	Field []FieldNode `json:"field"`
	Event []EventNode `json:"event"`

	Consts ConstPool `json:"consts"`

	Slots    []SlotMeta `json:"slots"`
	NumSlots int        `json:"num_slots"`

	// StateLayout carries resolved numeric offsets, sequential in
	// allocation order.
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

	Debug DebugIndex `json:"-"`
}

// CollectTypes builds the deduplicated first-seen-order type table from the
// node tables.
func CollectTypes(sig []SigNode, field []FieldNode, event []EventNode) []TypeDesc {
	seen := make(map[TypeDesc]bool)
	var types []TypeDesc
	add := func(t TypeDesc) {
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	for _, n := range sig {
		add(n.Type)
	}
	for _, n := range field {
		add(n.Type)
	}
	for _, n := range event {
		add(n.Type)
	}
	return types
}
