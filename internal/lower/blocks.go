package lower

import (
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/builder"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// Reference lowerings. These are not the block library - they are the
// minimal set of real lowerings the compiler repo needs to exercise its own
// pipeline end to end (tests, golden files, the demo command).

// LowerWave lowers a wave-generator block: phase -> sin -> scale/bias into
// a bound signal slot.
func LowerWave(ctx *Ctx, scale, bias float64) (*Result, error) {
	b := ctx.B
	phase := b.SigPhase01()
	wave := b.SigMap("sin01", phase, ir.SignalType(ir.DomainFloat))
	chain := b.RegisterTransformChain([]ir.TransformStep{
		{Op: "scale", Value: scale},
		{Op: "bias", Value: bias},
	})
	shaped := b.SigTransform(chain, wave, ir.SignalType(ir.DomainFloat))
	t := ir.SignalType(ir.DomainFloat)
	slot := b.AllocValueSlot(&t, "wave")
	b.RegisterSigSlot(shaped, slot)
	return &Result{
		Outputs: []OutputRef{{Port: "out", Slot: slot, Type: t}},
	}, nil
}

// LowerIntegrator lowers an integrator block: a stateful accumulation of
// its operand, persisted across frames in a declared state cell.
func LowerIntegrator(ctx *Ctx, operand ir.SigNodeID) (*Result, error) {
	b := ctx.B
	state := b.AllocStateID("", ir.SignalType(ir.DomainFloat), ir.VFloat(0), ctx.BlockID+"/acc")
	node := b.SigStateful(state, "integrate", operand, ir.SignalType(ir.DomainFloat))
	t := ir.SignalType(ir.DomainFloat)
	slot := b.AllocValueSlot(&t, "integrator")
	b.RegisterSigSlot(node, slot)
	return &Result{
		Outputs: []OutputRef{{Port: "out", Slot: slot, Type: t}},
	}, nil
}

// LowerGridDomain lowers a synthetic-domain block of n elements.
func LowerGridDomain(ctx *Ctx, n int) (*Result, error) {
	id := ctx.B.DomainFromN(n)
	return &Result{
		Declares: Declares{Domains: []ir.DomainID{id}},
	}, nil
}

// DemoPatch lowers the reference patch: a cyclic wave drives per-element
// positions and a pulsing radius over a synthetic grid domain, assembled
// through a 2D instance sink. It exercises every builder surface the
// compiler consumes: constants, transform chains, state, buses, domains,
// events and a render sink.
func DemoPatch(cfg builder.Config) (*ir.BuilderProgram, error) {
	b := builder.New(cfg)
	b.SetTimeModel(ir.TimeModel{Kind: ir.TimeModelCyclic, PeriodMs: 2000, Mode: ir.CycleLoop})

	seedConst, err := b.AllocConst(ir.VInt(cfg.Seed))
	if err != nil {
		return nil, err
	}

	// Wave block: the animated driver signal.
	waveCtx := NewCtx(b, "block:wave", seedConst)
	wave, err := LowerWave(waveCtx, 0.5, 0.5)
	waveCtx.Done()
	if err != nil {
		return nil, err
	}

	// Energy bus: the wave and a constant floor publish into one value.
	busCtx := NewCtx(b, "block:energy-bus", seedConst)
	floorConst, err := b.AllocConst(ir.VFloat(0.1))
	if err != nil {
		return nil, err
	}
	floor := b.SigConst(floorConst, ir.SignalType(ir.DomainFloat))
	phase := b.SigPhase01()
	pulse := b.SigMap("sin01", phase, ir.SignalType(ir.DomainFloat))
	bus := b.DefineBus("energy", ir.SignalType(ir.DomainFloat), ir.BusSum)
	energy := b.SigBusCombine(bus, ir.BusSum, []ir.SigNodeID{floor, pulse}, ir.SignalType(ir.DomainFloat))
	energyType := ir.SignalType(ir.DomainFloat)
	energySlot := b.AllocValueSlot(&energyType, "energy")
	b.RegisterSigSlot(energy, energySlot)
	busCtx.Done()

	// Grid domain block.
	gridCtx := NewCtx(b, "block:grid", seedConst)
	grid, err := LowerGridDomain(gridCtx, 64)
	gridCtx.Done()
	if err != nil {
		return nil, err
	}
	domainID := grid.Declares.Domains[0]

	// Scatter block: positions field broadcast from the wave, jittered
	// per element by a named field function keyed on the seed.
	scatterCtx := NewCtx(b, "block:scatter", seedConst)
	waveNode := b.SigMap("sin01", b.SigPhase01(), ir.SignalType(ir.DomainFloat))
	posBase := b.FieldBroadcast(waveNode, domainID, ir.FieldType(ir.DomainVec2))
	positions := b.FieldMap("jitter2d", posBase, ir.FieldType(ir.DomainVec2))
	posType := ir.FieldType(ir.DomainVec2)
	posSlot := b.AllocValueSlot(&posType, "positions")
	b.RegisterFieldSlot(positions, posSlot)

	colorConst, err := b.AllocConst(ir.RGBA(0.9, 0.4, 0.1, 1))
	if err != nil {
		return nil, err
	}
	colorField := b.FieldConst(colorConst, ir.FieldType(ir.DomainColor))
	colorType := ir.FieldType(ir.DomainColor)
	colorSlot := b.AllocValueSlot(&colorType, "color")
	b.RegisterFieldSlot(colorField, colorSlot)
	scatterCtx.Done()

	// Pulse divider on the cycle wrap event.
	eventCtx := NewCtx(b, "block:divider", seedConst)
	wrap := b.EventWrap()
	divState := b.AllocStateID("", ir.EventType(ir.DomainTrigger), ir.VInt(0), "divider/count")
	divided := b.EventStateful(divState, "pulseDivider", wrap, ir.EventType(ir.DomainTrigger))
	trigType := ir.EventType(ir.DomainTrigger)
	trigSlot := b.AllocValueSlot(&trigType, "beat")
	b.RegisterEventSlot(divided, trigSlot)
	eventCtx.Done()

	// Dots sink block.
	sinkCtx := NewCtx(b, "block:dots", seedConst)
	domainType := ir.SpecialType(ir.DomainDomainRef)
	_, err = b.RenderSink(ir.SinkInstances2D, []ir.SinkInput{
		{Name: ir.SinkInputDomain, Slot: b.DomainSlot(domainID), Type: domainType},
		{Name: ir.SinkInputPositions, Slot: posSlot, Type: posType, Field: positions, Domain: domainID},
		{Name: ir.SinkInputRadius, Slot: wave.Outputs[0].Slot, Type: wave.Outputs[0].Type},
		{Name: ir.SinkInputColor, Slot: colorSlot, Type: colorType, Field: colorField, Domain: domainID},
	})
	sinkCtx.Done()
	if err != nil {
		return nil, err
	}

	return b.Build()
}
