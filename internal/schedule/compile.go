package schedule

import (
	"fmt"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// StepIDTimeDerive is the fixed ID of the mandatory first step.
const StepIDTimeDerive ir.StepID = "time-derive"

// StepIDAssemble is the fixed ID of the final render-assemble step.
const StepIDAssemble ir.StepID = "render-assemble"

// Compile turns a frozen builder snapshot into a compiled program.
//
// Fatal errors (undeclared state refs, undeclared transform chains) abort
// compilation with no partial program. Non-fatal findings come back as
// warnings and additionally as no-op debugProbe steps in the schedule.
//
// Compile never mutates the snapshot; node tables are copied before state
// offsets are rewritten.
func Compile(bp *ir.BuilderProgram) (*ir.CompiledProgram, []Warning, error) {
	c := &compilation{
		bp:       bp,
		slots:    append([]ir.SlotMeta(nil), bp.Slots...),
		numSlots: bp.NumSlots,
		sig:      append([]ir.SigNode(nil), bp.Sig...),
		field:    append([]ir.FieldNode(nil), bp.Field...),
		event:    append([]ir.EventNode(nil), bp.Event...),
	}

	stateLayout, err := c.resolveState()
	if err != nil {
		return nil, nil, err
	}
	if err := c.checkChains(); err != nil {
		return nil, nil, err
	}
	c.warnUnknownDomains()

	c.sigVarying = sigTimeVarying(c.sig)
	c.fieldVarying = fieldTimeVarying(c.field, c.sigVarying)

	c.emitTimeDerive()
	c.emitValueEvals()
	c.emitCameraEvals()
	c.emitSinks()
	c.emitAssemble()
	c.emitProbes()

	ordered, err := topoSort(c.steps)
	if err != nil {
		return nil, nil, err
	}

	program := &ir.CompiledProgram{
		IRVersion:     ir.IRVersion,
		PatchID:       bp.PatchID,
		PatchRevision: bp.PatchRevision,
		Seed:          bp.Seed,
		TimeModel:     bp.TimeModel,
		Types:         ir.CollectTypes(c.sig, c.field, c.event),
		Sig:           c.sig,
		Field:         c.field,
		Event:         c.event,
		Consts:        bp.Consts,
		Slots:         c.slots,
		NumSlots:      c.numSlots,
		StateLayout:   stateLayout,
		Domains:       bp.Domains,
		Cameras:       bp.Cameras,
		Sinks:         bp.Sinks,
		Buses:         bp.Buses,
		Chains:        bp.Chains,
		SigBindings:   bp.SigBindings,
		FieldBindings: bp.FieldBindings,
		EventBindings: bp.EventBindings,
		Schedule: ir.Schedule{
			Steps: ordered,
			Contract: ir.DeterminismContract{
				OrderingInputs: []string{
					"declaration order of sinks, bindings, cameras and state cells",
					"publisher order within bus-combine nodes",
					"lexicographic step-id tie-break of the topological sort",
				},
				TieBreak: "lexicographic step id",
			},
		},
		Outputs: c.outputs,
		Debug:   c.buildDebugIndex(),
	}
	return program, c.warnings, nil
}

// compilation holds the working state of one Compile call.
type compilation struct {
	bp *ir.BuilderProgram

	sig   []ir.SigNode
	field []ir.FieldNode
	event []ir.EventNode

	slots    []ir.SlotMeta
	numSlots int

	sigVarying   []bool
	fieldVarying []bool

	steps    []ir.Step
	outputs  []ir.DeclaredOutput
	warnings []Warning

	// slotStep maps a value slot to the step that writes it, used to wire
	// assemble dependencies on directly consumed signal inputs.
	slotStep map[ir.SlotID]ir.StepID

	// cameraStep maps a camera handle slot to its eval step.
	cameraStep map[ir.SlotID]ir.StepID

	// stepBlock records step provenance as steps are emitted.
	stepBlock map[ir.StepID]string

	// matSteps and projectSteps accumulate the frame's materializations
	// for the assemble dependency list.
	matSteps     []ir.StepID
	projectSteps []ir.StepID

	batches2D   []ir.Instance2DBatch
	batchesPath []ir.PathBatch
}

// resolveState walks the state layout in allocation order, assigns
// sequential numeric offsets and rewrites every stateful node's symbolic ID
// to carry its offset. A stateful node whose ID was never declared is a
// hard compile error, never a silent default.
func (c *compilation) resolveState() ([]ir.StateCell, error) {
	layout := make([]ir.StateCell, 0, len(c.bp.StateLayout))
	offsets := make(map[ir.StateID]int, len(c.bp.StateLayout))
	for _, cell := range c.bp.StateLayout {
		if _, dup := offsets[cell.ID]; dup {
			c.warn(WarnDuplicateState, fmt.Sprintf("state id %q declared more than once; first declaration wins", cell.ID), string(cell.ID))
			continue
		}
		cell.Offset = len(layout)
		offsets[cell.ID] = cell.Offset
		layout = append(layout, cell)
	}

	referenced := make(map[ir.StateID]bool)

	for i := range c.sig {
		n := &c.sig[i]
		if n.Kind != ir.KindStateful {
			continue
		}
		off, ok := offsets[n.State]
		if !ok {
			return nil, c.missingState(n.State, fmt.Sprintf("sig:%d", n.ID), n.Block)
		}
		n.StateOffset = off
		referenced[n.State] = true
	}
	for i := range c.field {
		n := &c.field[i]
		if n.Kind != ir.KindStateful {
			continue
		}
		off, ok := offsets[n.State]
		if !ok {
			return nil, c.missingState(n.State, fmt.Sprintf("field:%d", n.ID), n.Block)
		}
		n.StateOffset = off
		referenced[n.State] = true
	}
	for i := range c.event {
		n := &c.event[i]
		if n.Kind != ir.KindStateful {
			continue
		}
		off, ok := offsets[n.State]
		if !ok {
			return nil, c.missingState(n.State, fmt.Sprintf("event:%d", n.ID), n.Block)
		}
		n.StateOffset = off
		referenced[n.State] = true
	}

	for _, cell := range layout {
		if !referenced[cell.ID] {
			c.warn(WarnOrphanState, fmt.Sprintf("state cell %q is declared but never referenced", cell.ID), string(cell.ID))
		}
	}
	return layout, nil
}

func (c *compilation) missingState(id ir.StateID, node, block string) error {
	return &Error{
		Code:    CodeStateRefMissingDecl,
		Message: fmt.Sprintf("stateful node references undeclared state id %q", id),
		State:   id,
		Node:    node,
		Block:   block,
	}
}

// checkChains validates that every transform node references a registered
// chain. Chains are registered by index, so the check is a bounds test.
func (c *compilation) checkChains() error {
	bad := func(chain ir.TransformChainID, node, block string) error {
		return &Error{
			Code:    CodeTransformChainMissingDecl,
			Message: fmt.Sprintf("transform node references unregistered chain %d", chain),
			Node:    node,
			Block:   block,
		}
	}
	for _, n := range c.sig {
		if n.Kind == ir.KindTransform && (int(n.Chain) < 0 || int(n.Chain) >= len(c.bp.Chains)) {
			return bad(n.Chain, fmt.Sprintf("sig:%d", n.ID), n.Block)
		}
	}
	for _, n := range c.field {
		if n.Kind == ir.KindTransform && (int(n.Chain) < 0 || int(n.Chain) >= len(c.bp.Chains)) {
			return bad(n.Chain, fmt.Sprintf("field:%d", n.ID), n.Block)
		}
	}
	return nil
}

func (c *compilation) warnUnknownDomains() {
	for _, t := range ir.CollectTypes(c.sig, c.field, c.event) {
		if !ir.KnownDomain(t.Domain) {
			c.warn(WarnUnknownDomain, fmt.Sprintf("unrecognized domain %q; arity defaulted to 1", t.Domain), "domain:"+string(t.Domain))
		}
	}
}

func (c *compilation) warn(code WarningCode, msg, ref string) {
	c.warnings = append(c.warnings, Warning{Code: code, Message: msg, Ref: ref})
}

func (c *compilation) addStep(s ir.Step, block string) {
	if c.stepBlock == nil {
		c.stepBlock = make(map[ir.StepID]string)
	}
	if block != "" {
		c.stepBlock[s.ID] = block
	}
	c.steps = append(c.steps, s)
}

// allocSlot extends the value store with a compiler-derived slot.
func (c *compilation) allocSlot(width int, storage ir.StorageClass, debugName string) ir.SlotID {
	slot := ir.SlotID(c.numSlots)
	c.numSlots += width
	c.slots = append(c.slots, ir.SlotMeta{
		Slot:      slot,
		Width:     width,
		Storage:   storage,
		DebugName: debugName,
	})
	return slot
}

// emitTimeDerive emits the mandatory first step. It converts external
// absolute time into model time, phase, progress and the wrap event; no
// other step may write those slots.
func (c *compilation) emitTimeDerive() {
	c.addStep(ir.Step{
		ID:   StepIDTimeDerive,
		Kind: ir.StepTimeDerive,
		Cache: ir.CacheKeySpec{
			Mode: ir.CacheNone,
			Deps: []ir.CacheDep{
				{Kind: ir.CacheDepExternal, Ref: "absTimeMs"},
				{Kind: ir.CacheDepTimeModel, Ref: string(c.bp.TimeModel.Kind)},
			},
		},
	}, "")
}

// emitValueEvals emits one signalEval per signal binding and one nodeEval
// per event binding, all ordered after time derivation.
func (c *compilation) emitValueEvals() {
	c.slotStep = make(map[ir.SlotID]ir.StepID)

	for _, bind := range c.bp.SigBindings {
		id := ir.StepID(fmt.Sprintf("sig-%d", bind.Slot))
		node := c.sig[bind.Node]
		cache := ir.CacheKeySpec{Mode: ir.CachePerFrame}
		if !c.sigVarying[bind.Node] {
			cache = ir.CacheKeySpec{
				Mode: ir.CacheUntilInvalidated,
				Deps: []ir.CacheDep{{Kind: ir.CacheDepSeed, Ref: "seed"}},
			}
		}
		c.addStep(ir.Step{
			ID:        id,
			Kind:      ir.StepSignalEval,
			DependsOn: []ir.StepID{StepIDTimeDerive},
			Cache:     cache,
			Target:    bind.Slot,
			Sig:       node.ID,
		}, node.Block)
		c.slotStep[bind.Slot] = id
	}

	for _, bind := range c.bp.EventBindings {
		id := ir.StepID(fmt.Sprintf("evt-%d", bind.Slot))
		node := c.event[bind.Node]
		c.addStep(ir.Step{
			ID:        id,
			Kind:      ir.StepNodeEval,
			DependsOn: []ir.StepID{StepIDTimeDerive},
			Cache:     ir.CacheKeySpec{Mode: ir.CachePerFrame},
			Target:    bind.Slot,
			Event:     node.ID,
		}, node.Block)
		c.slotStep[bind.Slot] = id
	}
}

func (c *compilation) emitCameraEvals() {
	c.cameraStep = make(map[ir.SlotID]ir.StepID)
	for _, cam := range c.bp.Cameras {
		id := ir.StepID(fmt.Sprintf("camera-%d", cam.ID))
		c.addStep(ir.Step{
			ID:        id,
			Kind:      ir.StepCameraEval,
			DependsOn: []ir.StepID{StepIDTimeDerive},
			Cache:     ir.CacheKeySpec{Mode: ir.CachePerFrame},
			Target:    cam.Slot,
			Camera:    cam.ID,
		}, cam.Block)
		c.cameraStep[cam.Slot] = id
	}
}

// fieldCache returns the caching policy of a field materialization: static
// expressions hold their buffers until seed or domain change, everything
// else recomputes each frame.
func (c *compilation) fieldCache(node ir.FieldNodeID, domainSlot ir.SlotID) ir.CacheKeySpec {
	if c.fieldVarying[node] {
		return ir.CacheKeySpec{Mode: ir.CachePerFrame}
	}
	return ir.CacheKeySpec{
		Mode: ir.CacheUntilInvalidated,
		Deps: []ir.CacheDep{
			{Kind: ir.CacheDepSeed, Ref: "seed"},
			{Kind: ir.CacheDepSlot, Ref: fmt.Sprintf("%d", domainSlot)},
		},
	}
}

// emitSinks lowers each declared render sink into materialization steps and
// collects batch descriptors for the final assemble.
func (c *compilation) emitSinks() {
	for _, sink := range c.bp.Sinks {
		if len(sink.Inputs) == 0 {
			c.warn(WarnSinkNoInputs, fmt.Sprintf("render sink %d (%s) has no inputs", sink.Index, sink.Kind), fmt.Sprintf("sink:%d", sink.Index))
			continue
		}
		switch sink.Kind {
		case ir.SinkInstances3D:
			c.emitInstances3DSink(sink)
		case ir.SinkPaths2D:
			c.emitPaths2DSink(sink)
		default:
			c.emitInstances2DSink(sink)
		}
	}
}

// materializeInput emits the materialization step for one field-world sink
// input and returns its step ID.
func (c *compilation) materializeInput(sink ir.RenderSink, in ir.SinkInput) ir.StepID {
	domainSlot := c.domainSlot(in.Domain)
	block := c.field[in.Field].Block
	if block == "" {
		block = sink.Block
	}

	switch in.Type.Domain {
	case ir.DomainColor:
		id := ir.StepID(fmt.Sprintf("matcolor-%d-%s", sink.Index, in.Name))
		channels := make([]ir.SlotID, 4)
		for ch, name := range [4]string{"r", "g", "b", "a"} {
			channels[ch] = c.allocSlot(1, ir.StorageObject, fmt.Sprintf("sink%d-%s-%s", sink.Index, in.Name, name))
		}
		c.addStep(ir.Step{
			ID:        id,
			Kind:      ir.StepMaterializeColor,
			DependsOn: []ir.StepID{StepIDTimeDerive},
			Cache:     c.fieldCache(in.Field, domainSlot),
			Target:    in.Slot,
			Field:     in.Field,
			Domain:    in.Domain,
			Channels:  channels,
		}, block)
		c.matSteps = append(c.matSteps, id)
		return id
	case ir.DomainPath:
		id := ir.StepID(fmt.Sprintf("matpath-%d-%s", sink.Index, in.Name))
		c.addStep(ir.Step{
			ID:        id,
			Kind:      ir.StepMaterializePath,
			DependsOn: []ir.StepID{StepIDTimeDerive},
			Cache:     c.fieldCache(in.Field, domainSlot),
			Target:    in.Slot,
			Field:     in.Field,
			Domain:    in.Domain,
		}, block)
		c.matSteps = append(c.matSteps, id)
		return id
	case ir.DomainMesh:
		id := ir.StepID(fmt.Sprintf("matmesh-%d-%s", sink.Index, in.Name))
		c.addStep(ir.Step{
			ID:        id,
			Kind:      ir.StepMeshMaterialize,
			DependsOn: []ir.StepID{StepIDTimeDerive},
			Cache:     c.fieldCache(in.Field, domainSlot),
			Target:    in.Slot,
			Field:     in.Field,
			Domain:    in.Domain,
		}, block)
		c.matSteps = append(c.matSteps, id)
		return id
	default:
		id := ir.StepID(fmt.Sprintf("mat-%d-%s", sink.Index, in.Name))
		c.addStep(ir.Step{
			ID:        id,
			Kind:      ir.StepMaterialize,
			DependsOn: []ir.StepID{StepIDTimeDerive},
			Cache:     c.fieldCache(in.Field, domainSlot),
			Target:    in.Slot,
			Field:     in.Field,
			Domain:    in.Domain,
		}, block)
		c.matSteps = append(c.matSteps, id)
		return id
	}
}

// lowerInputs materializes every field-world input of a sink and returns
// the per-input slot map used for batch descriptors.
func (c *compilation) lowerInputs(sink ir.RenderSink) map[string]ir.SlotID {
	slots := make(map[string]ir.SlotID, len(sink.Inputs))
	for _, in := range sink.Inputs {
		slots[in.Name] = in.Slot
		switch in.Type.World {
		case ir.WorldField:
			c.materializeInput(sink, in)
		case ir.WorldSignal, ir.WorldEvent:
			// Consumed directly from its slot; the eval step already
			// exists. Nothing to materialize.
		case ir.WorldSpecial:
			// Handle references (domain, camera) carry no per-frame work
			// of their own.
		}
	}
	return slots
}

func (c *compilation) emitInstances2DSink(sink ir.RenderSink) {
	slots := c.lowerInputs(sink)
	batch := ir.Instance2DBatch{Sink: sink.Index, Domain: c.sinkDomain(sink)}
	if s, ok := slots[ir.SinkInputPositions]; ok {
		batch.Positions = s
	}
	if s, ok := slots[ir.SinkInputRadius]; ok {
		batch.Radius = s
	}
	if s, ok := slots[ir.SinkInputColor]; ok {
		batch.Color = s
	}
	c.batches2D = append(c.batches2D, batch)
}

func (c *compilation) emitPaths2DSink(sink ir.RenderSink) {
	slots := c.lowerInputs(sink)
	batch := ir.PathBatch{Sink: sink.Index}
	if s, ok := slots[ir.SinkInputPaths]; ok {
		batch.Paths = s
	}
	if s, ok := slots[ir.SinkInputColor]; ok {
		batch.Color = s
	}
	c.batchesPath = append(c.batchesPath, batch)
}

// emitInstances3DSink lowers a 3D sink: materializations, then a projection
// step through the sink's camera, contributing a 2D batch of the projected
// data.
func (c *compilation) emitInstances3DSink(sink ir.RenderSink) {
	slots := c.lowerInputs(sink)

	deps := []ir.StepID{StepIDTimeDerive}
	for _, in := range sink.Inputs {
		if in.Type.World == ir.WorldField {
			deps = append(deps, c.lastMatStepFor(sink.Index, in.Name))
		}
	}

	var camera ir.CameraID
	if in, ok := sink.Input(ir.SinkInputCamera); ok {
		if step, found := c.cameraStep[in.Slot]; found {
			deps = append(deps, step)
		}
		for _, cam := range c.bp.Cameras {
			if cam.Slot == in.Slot {
				camera = cam.ID
			}
		}
	}

	projected := c.allocSlot(1, ir.StorageObject, fmt.Sprintf("sink%d-projected", sink.Index))
	id := ir.StepID(fmt.Sprintf("project-%d", sink.Index))
	c.addStep(ir.Step{
		ID:        id,
		Kind:      ir.StepInstances3DProjectTo2D,
		DependsOn: deps,
		Cache:     ir.CacheKeySpec{Mode: ir.CachePerFrame},
		Target:    projected,
		Camera:    camera,
		Domain:    c.sinkDomain(sink),
	}, sink.Block)
	c.projectSteps = append(c.projectSteps, id)

	batch := ir.Instance2DBatch{Sink: sink.Index, Domain: c.sinkDomain(sink), Positions: projected}
	if s, ok := slots[ir.SinkInputRadius]; ok {
		batch.Radius = s
	}
	if s, ok := slots[ir.SinkInputColor]; ok {
		batch.Color = s
	}
	c.batches2D = append(c.batches2D, batch)
}

// lastMatStepFor reconstructs the step ID materializeInput assigned to a
// sink input. IDs are pure functions of (sink, input), so no lookup table
// is needed.
func (c *compilation) lastMatStepFor(sinkIdx int, inputName string) ir.StepID {
	for _, prefix := range []string{"matcolor", "matpath", "matmesh", "mat"} {
		id := ir.StepID(fmt.Sprintf("%s-%d-%s", prefix, sinkIdx, inputName))
		for _, s := range c.steps {
			if s.ID == id {
				return id
			}
		}
	}
	return StepIDTimeDerive
}

// sinkDomain resolves the domain a sink iterates: the explicit domain input
// when present, else the domain of its first field input.
func (c *compilation) sinkDomain(sink ir.RenderSink) ir.DomainID {
	if in, ok := sink.Input(ir.SinkInputDomain); ok {
		for _, d := range c.bp.Domains {
			if d.Slot == in.Slot {
				return d.ID
			}
		}
	}
	for _, in := range sink.Inputs {
		if in.Type.World == ir.WorldField {
			return in.Domain
		}
	}
	return 0
}

func (c *compilation) domainSlot(id ir.DomainID) ir.SlotID {
	if int(id) >= 0 && int(id) < len(c.bp.Domains) {
		return c.bp.Domains[id].Slot
	}
	return 0
}

// emitAssemble emits the final renderAssemble step. Its dependency list is
// a superset of every materialization step emitted for this compilation's
// sinks, plus the eval steps of directly consumed signal inputs.
func (c *compilation) emitAssemble() {
	deps := []ir.StepID{StepIDTimeDerive}
	deps = append(deps, c.matSteps...)
	deps = append(deps, c.projectSteps...)

	seen := make(map[ir.StepID]bool, len(deps))
	for _, d := range deps {
		seen[d] = true
	}
	for _, sink := range c.bp.Sinks {
		for _, in := range sink.Inputs {
			if in.Type.World != ir.WorldSignal && in.Type.World != ir.WorldEvent {
				continue
			}
			if step, ok := c.slotStep[in.Slot]; ok && !seen[step] {
				deps = append(deps, step)
				seen[step] = true
			}
		}
	}

	target := c.renderTreeSlot()
	c.addStep(ir.Step{
		ID:          StepIDAssemble,
		Kind:        ir.StepRenderAssemble,
		DependsOn:   deps,
		Cache:       ir.CacheKeySpec{Mode: ir.CachePerFrame},
		Target:      target,
		Batches2D:   c.batches2D,
		BatchesPath: c.batchesPath,
	}, "")
}

// renderTreeSlot returns the declared renderTree output slot, declaring one
// when the patch did not.
func (c *compilation) renderTreeSlot() ir.SlotID {
	c.outputs = append([]ir.DeclaredOutput(nil), c.bp.Outputs...)
	for _, out := range c.outputs {
		if out.Kind == "renderTree" {
			return out.Slot
		}
	}
	slot := c.allocSlot(1, ir.StorageObject, "render-tree")
	c.outputs = append(c.outputs, ir.DeclaredOutput{
		ID:    "render",
		Kind:  "renderTree",
		Slot:  slot,
		Label: "Assembled frame",
	})
	return slot
}

// emitProbes lowers the accumulated warnings into no-op debugProbe steps so
// a host can surface them frame-side without recompiling.
func (c *compilation) emitProbes() {
	for i, w := range c.warnings {
		c.addStep(ir.Step{
			ID:        ir.StepID(fmt.Sprintf("probe-%d", i)),
			Kind:      ir.StepDebugProbe,
			DependsOn: []ir.StepID{StepIDTimeDerive},
			Cache:     ir.CacheKeySpec{Mode: ir.CacheNone},
			Probe:     fmt.Sprintf("%s: %s", w.Code, w.Message),
		}, "")
	}
}

// buildDebugIndex assembles the build-to-source mapping from slot metadata
// and step provenance.
func (c *compilation) buildDebugIndex() ir.DebugIndex {
	idx := ir.NewDebugIndex()
	for _, meta := range c.slots {
		if meta.Block != "" {
			idx.SlotBlocks[meta.Slot] = meta.Block
		}
	}
	for id, block := range c.stepBlock {
		idx.StepBlocks[id] = block
	}
	return idx
}
