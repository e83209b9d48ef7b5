package builder

import (
	"fmt"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// Config identifies the compilation a Builder serves.
type Config struct {
	PatchID       string
	PatchRevision int64

	// Seed feeds stable element-ID derivation and is recorded on the
	// program. The same seed always reproduces the same element IDs.
	Seed int64
}

// Builder accumulates IR during one lowering pass.
//
// Not safe for concurrent use; a compilation owns exactly one Builder and
// discards it after Build(). Constructor methods panic on operand IDs that
// do not yet exist - that is a bug in the calling lowering routine, not a
// recoverable condition.
type Builder struct {
	cfg Config

	consumed bool

	timeModel    *ir.TimeModel
	currentBlock string

	sig   []ir.SigNode
	field []ir.FieldNode
	event []ir.EventNode

	consts     ir.ConstPool
	constByKey map[string]ir.ConstID

	slots    []ir.SlotMeta
	numSlots int

	stateLayout []ir.StateCell
	stateSeq    int

	domains []ir.DomainDef
	cameras []ir.CameraDef
	sinks   []ir.RenderSink
	buses   []ir.BusDef

	chains     []ir.TransformChain
	chainByKey map[string]ir.TransformChainID

	sigBindings   []ir.SlotBinding
	fieldBindings []ir.SlotBinding
	eventBindings []ir.SlotBinding

	outputs []ir.DeclaredOutput
}

// New creates a builder for one compilation pass.
func New(cfg Config) *Builder {
	return &Builder{
		cfg:        cfg,
		constByKey: make(map[string]ir.ConstID),
		chainByKey: make(map[string]ir.TransformChainID),
	}
}

// Seed returns the compilation seed.
func (b *Builder) Seed() int64 { return b.cfg.Seed }

// SetCurrentBlock sets the diagnostic provenance context. Every node and
// slot created while the context is active records it. Purely diagnostic;
// no effect on semantics.
func (b *Builder) SetCurrentBlock(blockID string) {
	b.mustBeLive()
	b.currentBlock = blockID
}

// ClearCurrentBlock clears the provenance context.
func (b *Builder) ClearCurrentBlock() {
	b.mustBeLive()
	b.currentBlock = ""
}

// CurrentBlock returns the active provenance context.
func (b *Builder) CurrentBlock() string { return b.currentBlock }

// SetTimeModel declares the patch's time model. Last declaration wins; a
// patch that declares none compiles with ir.DefaultTimeModel.
func (b *Builder) SetTimeModel(tm ir.TimeModel) {
	b.mustBeLive()
	b.timeModel = &tm
}

// AllocConst interns a literal value in the constant pool. Two structurally
// equal values (by canonical encoding) return the same ID; the pool is
// append-only and index-stable within one build.
func (b *Builder) AllocConst(v ir.Value) (ir.ConstID, error) {
	b.mustBeLive()
	key, err := ir.ConstKey(v)
	if err != nil {
		return 0, &Error{Code: CodeBadConst, Message: err.Error(), Block: b.currentBlock}
	}
	if id, ok := b.constByKey[key]; ok {
		return id, nil
	}
	id := ir.ConstID(len(b.consts))
	b.consts = append(b.consts, v)
	b.constByKey[key] = id
	return id, nil
}

// AllocValueSlot reserves ir.ArityOf(t) consecutive slots (1 when t is nil)
// and returns the first slot index. Bundle types always land in consecutive
// slots so the runtime can treat them as a fixed-width record.
func (b *Builder) AllocValueSlot(t *ir.TypeDesc, debugName string) ir.SlotID {
	b.mustBeLive()
	width := 1
	storage := ir.StorageNumeric
	if t != nil {
		width = ir.ArityOf(*t)
		storage = ir.StorageOf(*t)
	}
	slot := ir.SlotID(b.numSlots)
	b.numSlots += width
	b.slots = append(b.slots, ir.SlotMeta{
		Slot:      slot,
		Width:     width,
		Storage:   storage,
		DebugName: debugName,
		Type:      t,
		Block:     b.currentBlock,
	})
	return slot
}

// AllocStateID declares a cross-frame state cell and returns its symbolic
// ID immediately. Numeric offsets are a schedule-compiler concern; the
// layout entry is appended here in allocation order, which is the order
// offsets will later follow.
//
// An empty id mints a sequential "state-N" identifier.
func (b *Builder) AllocStateID(id ir.StateID, t ir.TypeDesc, initial ir.Value, debugName string) ir.StateID {
	b.mustBeLive()
	if id == "" {
		id = ir.StateID(fmt.Sprintf("state-%d", b.stateSeq))
	}
	b.stateSeq++
	b.stateLayout = append(b.stateLayout, ir.StateCell{
		ID:        id,
		Type:      t,
		Initial:   initial,
		Offset:    ir.StateOffsetUnresolved,
		DebugName: debugName,
	})
	return id
}

// RegisterTransformChain interns an ordered chain of numeric steps.
// Identical chains share one ID.
func (b *Builder) RegisterTransformChain(steps []ir.TransformStep) ir.TransformChainID {
	b.mustBeLive()
	key := chainKey(steps)
	if id, ok := b.chainByKey[key]; ok {
		return id
	}
	id := ir.TransformChainID(len(b.chains))
	b.chains = append(b.chains, ir.TransformChain{ID: id, Steps: steps})
	b.chainByKey[key] = id
	return id
}

func chainKey(steps []ir.TransformStep) string {
	key := ""
	for _, s := range steps {
		key += fmt.Sprintf("%s:%x;", s.Op, s.Value)
	}
	return key
}

// DefineBus declares a named aggregation point and returns its index.
// Publishers reference the bus by this index from then on.
func (b *Builder) DefineBus(name string, t ir.TypeDesc, policy ir.BusPolicy) int {
	b.mustBeLive()
	idx := len(b.buses)
	b.buses = append(b.buses, ir.BusDef{Index: idx, Name: name, Type: t, Policy: policy})
	return idx
}

// RegisterSigSlot binds a signal node's output to the slot where its result
// lives at runtime.
func (b *Builder) RegisterSigSlot(node ir.SigNodeID, slot ir.SlotID) {
	b.mustBeLive()
	b.mustHaveSig(node)
	b.sigBindings = append(b.sigBindings, ir.SlotBinding{Slot: slot, Node: int(node)})
}

// RegisterFieldSlot binds a field node's output to a slot.
func (b *Builder) RegisterFieldSlot(node ir.FieldNodeID, slot ir.SlotID) {
	b.mustBeLive()
	b.mustHaveField(node)
	b.fieldBindings = append(b.fieldBindings, ir.SlotBinding{Slot: slot, Node: int(node)})
}

// RegisterEventSlot binds an event node's output to a slot.
func (b *Builder) RegisterEventSlot(node ir.EventNodeID, slot ir.SlotID) {
	b.mustBeLive()
	b.mustHaveEvent(node)
	b.eventBindings = append(b.eventBindings, ir.SlotBinding{Slot: slot, Node: int(node)})
}

// DomainFromN declares a synthetic domain of n elements, allocates its
// handle slot and derives the stable per-element IDs from (n, seed).
// n clamps to a minimum of 1; zero- or negative-count domains are not
// representable.
func (b *Builder) DomainFromN(n int) ir.DomainID {
	b.mustBeLive()
	if n < 1 {
		n = 1
	}
	id := ir.DomainID(len(b.domains))
	t := ir.SpecialType(ir.DomainDomainRef)
	slot := b.AllocValueSlot(&t, fmt.Sprintf("domain-%d", id))
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = ir.SyntheticElementID(b.cfg.Seed, i)
	}
	b.domains = append(b.domains, ir.DomainDef{
		ID:         id,
		Source:     ir.DomainSourceSynthetic,
		Count:      n,
		Slot:       slot,
		ElementIDs: ids,
		Block:      b.currentBlock,
	})
	return id
}

// DomainFromSVG declares a domain sampled from a path asset. sampleCount
// clamps to a minimum of 1. An empty path is a structural error.
func (b *Builder) DomainFromSVG(path string, sampleCount int) (ir.DomainID, error) {
	b.mustBeLive()
	if path == "" {
		return 0, &Error{Code: CodeBadPathAsset, Message: "svg domain requires a path asset", Block: b.currentBlock}
	}
	if sampleCount < 1 {
		sampleCount = 1
	}
	id := ir.DomainID(len(b.domains))
	t := ir.SpecialType(ir.DomainDomainRef)
	slot := b.AllocValueSlot(&t, fmt.Sprintf("domain-%d", id))
	ids := make([]string, sampleCount)
	for i := 0; i < sampleCount; i++ {
		ids[i] = ir.PathElementID(path, i)
	}
	b.domains = append(b.domains, ir.DomainDef{
		ID:         id,
		Source:     ir.DomainSourceSVGPath,
		Count:      sampleCount,
		Path:       path,
		Slot:       slot,
		ElementIDs: ids,
		Block:      b.currentBlock,
	})
	return id, nil
}

// DomainSlot returns the handle slot of a declared domain.
func (b *Builder) DomainSlot(id ir.DomainID) ir.SlotID {
	b.mustHaveDomain(id)
	return b.domains[id].Slot
}

// CameraSlot returns the handle slot of a declared camera.
func (b *Builder) CameraSlot(id ir.CameraID) ir.SlotID {
	if int(id) < 0 || int(id) >= len(b.cameras) {
		panic(fmt.Sprintf("builder: camera %d does not exist (%d declared)", id, len(b.cameras)))
	}
	return b.cameras[id].Slot
}

// RegisterCamera declares a camera and allocates its handle slot.
func (b *Builder) RegisterCamera() ir.CameraID {
	b.mustBeLive()
	id := ir.CameraID(len(b.cameras))
	t := ir.SpecialType(ir.DomainCamera)
	slot := b.AllocValueSlot(&t, fmt.Sprintf("camera-%d", id))
	b.cameras = append(b.cameras, ir.CameraDef{ID: id, Slot: slot, Block: b.currentBlock})
	return id
}

// RenderSink appends a render sink declaration and returns its index.
//
// No validation beyond kind presence happens here: required-input rules per
// sink kind belong to per-block lowering, which is expected to fail fast
// with a descriptive error before calling this method.
func (b *Builder) RenderSink(kind ir.SinkKind, inputs []ir.SinkInput) (int, error) {
	b.mustBeLive()
	if kind == "" {
		return 0, &Error{Code: CodeSinkKindMissing, Message: "render sink requires a kind", Block: b.currentBlock}
	}
	idx := len(b.sinks)
	b.sinks = append(b.sinks, ir.RenderSink{
		Index:  idx,
		Kind:   kind,
		Inputs: inputs,
		Block:  b.currentBlock,
	})
	return idx, nil
}

// DeclareOutput announces an externally visible output of the program.
func (b *Builder) DeclareOutput(id, kind string, slot ir.SlotID, label string) {
	b.mustBeLive()
	b.outputs = append(b.outputs, ir.DeclaredOutput{ID: id, Kind: kind, Slot: slot, Label: label})
}

// Build freezes all tables into an immutable BuilderProgram and consumes
// the builder. A second call returns CodeBuilderConsumed; any other use
// after Build panics.
func (b *Builder) Build() (*ir.BuilderProgram, error) {
	if b.consumed {
		return nil, &Error{Code: CodeBuilderConsumed, Message: "builder already consumed by Build()"}
	}
	b.consumed = true

	tm := ir.DefaultTimeModel()
	if b.timeModel != nil {
		tm = *b.timeModel
	}

	return &ir.BuilderProgram{
		PatchID:       b.cfg.PatchID,
		PatchRevision: b.cfg.PatchRevision,
		Seed:          b.cfg.Seed,
		TimeModel:     tm,
		Sig:           b.sig,
		Field:         b.field,
		Event:         b.event,
		Consts:        b.consts,
		Slots:         b.slots,
		NumSlots:      b.numSlots,
		StateLayout:   b.stateLayout,
		Domains:       b.domains,
		Cameras:       b.cameras,
		Sinks:         b.sinks,
		Buses:         b.buses,
		Chains:        b.chains,
		SigBindings:   b.sigBindings,
		FieldBindings: b.fieldBindings,
		EventBindings: b.eventBindings,
		Outputs:       b.outputs,
	}, nil
}

// mustBeLive panics if the builder was already consumed. Reuse after
// Build() is a programming error, not a recoverable condition.
func (b *Builder) mustBeLive() {
	if b.consumed {
		panic("builder: use after Build()")
	}
}

func (b *Builder) mustHaveSig(id ir.SigNodeID) {
	if int(id) < 0 || int(id) >= len(b.sig) {
		panic(fmt.Sprintf("builder: signal node %d does not exist (table has %d nodes)", id, len(b.sig)))
	}
}

func (b *Builder) mustHaveField(id ir.FieldNodeID) {
	if int(id) < 0 || int(id) >= len(b.field) {
		panic(fmt.Sprintf("builder: field node %d does not exist (table has %d nodes)", id, len(b.field)))
	}
}

func (b *Builder) mustHaveEvent(id ir.EventNodeID) {
	if int(id) < 0 || int(id) >= len(b.event) {
		panic(fmt.Sprintf("builder: event node %d does not exist (table has %d nodes)", id, len(b.event)))
	}
}

func (b *Builder) mustHaveDomain(id ir.DomainID) {
	if int(id) < 0 || int(id) >= len(b.domains) {
		panic(fmt.Sprintf("builder: domain %d does not exist (%d declared)", id, len(b.domains)))
	}
}
