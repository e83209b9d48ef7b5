package builder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

func newTestBuilder(seed int64) *Builder {
	return New(Config{PatchID: "patch-test", PatchRevision: 1, Seed: seed})
}

func TestAllocConstDedup(t *testing.T) {
	b := newTestBuilder(1)

	a, err := b.AllocConst(ir.VFloat(1.5))
	require.NoError(t, err)
	again, err := b.AllocConst(ir.VFloat(1.5))
	require.NoError(t, err)
	assert.Equal(t, a, again)

	other, err := b.AllocConst(ir.VFloat(2.5))
	require.NoError(t, err)
	assert.NotEqual(t, a, other)

	bp, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, bp.Consts, 2)
}

func TestAllocConstIntAndFloatAreDistinct(t *testing.T) {
	b := newTestBuilder(1)

	i, err := b.AllocConst(ir.VInt(2))
	require.NoError(t, err)
	f, err := b.AllocConst(ir.VFloat(2))
	require.NoError(t, err)
	assert.NotEqual(t, i, f)
}

func TestAllocConstStructuralEquality(t *testing.T) {
	b := newTestBuilder(1)

	// Objects built in different key orders are the same constant.
	a, err := b.AllocConst(ir.VObject{"x": ir.VInt(1), "y": ir.VInt(2)})
	require.NoError(t, err)
	c, err := b.AllocConst(ir.VObject{"y": ir.VInt(2), "x": ir.VInt(1)})
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestAllocConstRejectsNaN(t *testing.T) {
	b := newTestBuilder(1)
	_, err := b.AllocConst(ir.VFloat(math.NaN()))
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeBadConst))
}

func TestAllocValueSlotBundleWidths(t *testing.T) {
	b := newTestBuilder(1)

	v3 := ir.SignalType(ir.DomainVec3)
	first := b.AllocValueSlot(&v3, "pos3")
	assert.Equal(t, ir.SlotID(0), first)

	f := ir.SignalType(ir.DomainFloat)
	second := b.AllocValueSlot(&f, "radius")
	// The vec3 occupies slots 0..2; the next allocation starts at 3.
	assert.Equal(t, ir.SlotID(3), second)

	col := ir.FieldType(ir.DomainColor)
	third := b.AllocValueSlot(&col, "tint")
	assert.Equal(t, ir.SlotID(4), third)

	bp, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 8, bp.NumSlots)

	require.Len(t, bp.Slots, 3)
	assert.Equal(t, 3, bp.Slots[0].Width)
	assert.Equal(t, ir.StorageNumeric, bp.Slots[0].Storage)
	assert.Equal(t, 1, bp.Slots[1].Width)
	assert.Equal(t, 4, bp.Slots[2].Width)
	assert.Equal(t, ir.StorageObject, bp.Slots[2].Storage)
}

func TestAllocValueSlotNilType(t *testing.T) {
	b := newTestBuilder(1)
	slot := b.AllocValueSlot(nil, "untyped")
	assert.Equal(t, ir.SlotID(0), slot)

	bp, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, bp.NumSlots)
	assert.Equal(t, ir.StorageNumeric, bp.Slots[0].Storage)
	assert.Nil(t, bp.Slots[0].Type)
}

func TestAllocStateIDMintsSequentialNames(t *testing.T) {
	b := newTestBuilder(1)

	first := b.AllocStateID("", ir.SignalType(ir.DomainFloat), ir.VFloat(0), "a")
	second := b.AllocStateID("", ir.SignalType(ir.DomainFloat), ir.VFloat(0), "b")
	named := b.AllocStateID("custom", ir.SignalType(ir.DomainFloat), nil, "c")

	assert.Equal(t, ir.StateID("state-0"), first)
	assert.Equal(t, ir.StateID("state-1"), second)
	assert.Equal(t, ir.StateID("custom"), named)

	bp, err := b.Build()
	require.NoError(t, err)
	require.Len(t, bp.StateLayout, 3)
	for _, cell := range bp.StateLayout {
		assert.Equal(t, ir.StateOffsetUnresolved, cell.Offset)
	}
}

func TestRegisterTransformChainDedup(t *testing.T) {
	b := newTestBuilder(1)

	steps := []ir.TransformStep{{Op: "scale", Value: 2}, {Op: "bias", Value: 1}}
	a := b.RegisterTransformChain(steps)
	c := b.RegisterTransformChain([]ir.TransformStep{{Op: "scale", Value: 2}, {Op: "bias", Value: 1}})
	assert.Equal(t, a, c)

	// Order matters: bias-then-scale is a different chain.
	d := b.RegisterTransformChain([]ir.TransformStep{{Op: "bias", Value: 1}, {Op: "scale", Value: 2}})
	assert.NotEqual(t, a, d)

	bp, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, bp.Chains, 2)
}

func TestDomainFromN(t *testing.T) {
	b := newTestBuilder(7)

	id := b.DomainFromN(3)
	bp, err := b.Build()
	require.NoError(t, err)

	require.Len(t, bp.Domains, 1)
	d := bp.Domains[id]
	assert.Equal(t, ir.DomainSourceSynthetic, d.Source)
	assert.Equal(t, 3, d.Count)
	require.Len(t, d.ElementIDs, 3)
	for i, eid := range d.ElementIDs {
		assert.Equal(t, ir.SyntheticElementID(7, i), eid)
		assert.Len(t, eid, ir.ElementIDLength)
	}
}

func TestDomainFromNClampsToOne(t *testing.T) {
	for _, n := range []int{0, -5} {
		b := newTestBuilder(1)
		id := b.DomainFromN(n)
		bp, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, 1, bp.Domains[id].Count)
	}
}

func TestDomainElementIDsDependOnlyOnSeed(t *testing.T) {
	build := func(seed int64) []string {
		b := newTestBuilder(seed)
		id := b.DomainFromN(5)
		bp, err := b.Build()
		require.NoError(t, err)
		return bp.Domains[id].ElementIDs
	}

	assert.Equal(t, build(9), build(9))
	assert.NotEqual(t, build(9), build(10))
}

func TestDomainFromSVG(t *testing.T) {
	b := newTestBuilder(1)

	id, err := b.DomainFromSVG("assets/spiral.svg", 4)
	require.NoError(t, err)

	bp, err := b.Build()
	require.NoError(t, err)
	d := bp.Domains[id]
	assert.Equal(t, ir.DomainSourceSVGPath, d.Source)
	assert.Equal(t, "assets/spiral.svg", d.Path)
	require.Len(t, d.ElementIDs, 4)
	assert.Equal(t, ir.PathElementID("assets/spiral.svg", 0), d.ElementIDs[0])
}

func TestDomainFromSVGRejectsEmptyPath(t *testing.T) {
	b := newTestBuilder(1)
	b.SetCurrentBlock("block:spiral")
	_, err := b.DomainFromSVG("", 4)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeBadPathAsset))

	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "block:spiral", be.Block)
}

func TestRenderSinkRequiresKind(t *testing.T) {
	b := newTestBuilder(1)
	_, err := b.RenderSink("", nil)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeSinkKindMissing))
}

func TestBuildConsumesBuilder(t *testing.T) {
	b := newTestBuilder(1)

	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeBuilderConsumed))

	assert.Panics(t, func() { b.SigPhase01() })
	assert.Panics(t, func() { b.AllocValueSlot(nil, "late") })
}

func TestBuildDefaultsTimeModel(t *testing.T) {
	b := newTestBuilder(1)
	bp, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, ir.DefaultTimeModel(), bp.TimeModel)
}

func TestSetTimeModelLastWins(t *testing.T) {
	b := newTestBuilder(1)
	b.SetTimeModel(ir.TimeModel{Kind: ir.TimeModelFinite, DurationMs: 500})
	b.SetTimeModel(ir.TimeModel{Kind: ir.TimeModelCyclic, PeriodMs: 2000, Mode: ir.CyclePingPong})

	bp, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, ir.TimeModelCyclic, bp.TimeModel.Kind)
	assert.Equal(t, ir.CyclePingPong, bp.TimeModel.Mode)
}

func TestBlockProvenanceRecorded(t *testing.T) {
	b := newTestBuilder(1)

	b.SetCurrentBlock("block:wave")
	n := b.SigPhase01()
	f := ir.SignalType(ir.DomainFloat)
	b.AllocValueSlot(&f, "wave")
	b.ClearCurrentBlock()
	outside := b.SigTimeAbsMs()

	bp, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "block:wave", bp.Sig[n].Block)
	assert.Equal(t, "block:wave", bp.Slots[0].Block)
	assert.Equal(t, "", bp.Sig[outside].Block)
}

func TestNodeConstructorsValidateOperands(t *testing.T) {
	b := newTestBuilder(1)
	assert.Panics(t, func() { b.SigMap("sin01", ir.SigNodeID(5), ir.SignalType(ir.DomainFloat)) })
	assert.Panics(t, func() { b.FieldMap("abs", ir.FieldNodeID(0), ir.FieldType(ir.DomainFloat)) })
	assert.Panics(t, func() { b.EventMap("gate", ir.EventNodeID(0), ir.EventType(ir.DomainTrigger)) })
	assert.Panics(t, func() { b.FieldBroadcast(ir.SigNodeID(0), ir.DomainID(0), ir.FieldType(ir.DomainFloat)) })
}

func TestSelectArgsOrder(t *testing.T) {
	b := newTestBuilder(1)
	cond := b.SigPhase01()
	tv := b.SigTimeAbsMs()
	fv := b.SigProgress01()
	sel := b.SigSelect(cond, tv, fv, ir.SignalType(ir.DomainFloat))

	bp, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []ir.SigNodeID{cond, tv, fv}, bp.Sig[sel].Args)
	assert.Equal(t, ir.KindSelect, bp.Sig[sel].Kind)
}

func TestTablesAcyclicByConstruction(t *testing.T) {
	// Every operand ID is smaller than its user's ID; the tables are
	// topologically ordered as built.
	b := newTestBuilder(1)
	a := b.SigPhase01()
	m := b.SigMap("sin01", a, ir.SignalType(ir.DomainFloat))
	b.SigZip("mul", a, m, ir.SignalType(ir.DomainFloat))

	bp, err := b.Build()
	require.NoError(t, err)
	for _, n := range bp.Sig {
		for _, arg := range n.Args {
			assert.Less(t, int(arg), int(n.ID))
		}
	}
}
