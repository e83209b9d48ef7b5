package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/builder"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/schedule"
)

func testConfig(seed int64) builder.Config {
	return builder.Config{PatchID: "patch-test", PatchRevision: 1, Seed: seed}
}

func TestNewCtxActivatesProvenance(t *testing.T) {
	b := builder.New(testConfig(1))
	seed, err := b.AllocConst(ir.VInt(1))
	require.NoError(t, err)

	ctx := NewCtx(b, "block:wave", seed)
	assert.Equal(t, "block:wave", b.CurrentBlock())
	ctx.Done()
	assert.Equal(t, "", b.CurrentBlock())
}

func TestRequireInput(t *testing.T) {
	b := builder.New(testConfig(1))
	seed, err := b.AllocConst(ir.VInt(1))
	require.NoError(t, err)

	ctx := NewCtx(b, "block:gain", seed)
	defer ctx.Done()
	ctx.InputTypes["signal"] = ir.SignalType(ir.DomainFloat)

	got, err := ctx.RequireInput("signal")
	require.NoError(t, err)
	assert.Equal(t, ir.SignalType(ir.DomainFloat), got)

	_, err = ctx.RequireInput("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block:gain")
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestLowerWave(t *testing.T) {
	b := builder.New(testConfig(1))
	seed, err := b.AllocConst(ir.VInt(1))
	require.NoError(t, err)

	ctx := NewCtx(b, "block:wave", seed)
	res, err := LowerWave(ctx, 0.5, 0.5)
	ctx.Done()
	require.NoError(t, err)

	require.Len(t, res.Outputs, 1)
	assert.Equal(t, "out", res.Outputs[0].Port)
	assert.Equal(t, ir.SignalType(ir.DomainFloat), res.Outputs[0].Type)

	bp, err := b.Build()
	require.NoError(t, err)

	// Identical scale/bias chains from repeated wave blocks intern to one
	// registered chain.
	require.Len(t, bp.Chains, 1)
	assert.Equal(t, []ir.TransformStep{{Op: "scale", Value: 0.5}, {Op: "bias", Value: 0.5}}, bp.Chains[0].Steps)
	require.Len(t, bp.SigBindings, 1)
	assert.Equal(t, res.Outputs[0].Slot, bp.SigBindings[0].Slot)
}

func TestLowerIntegratorDeclaresState(t *testing.T) {
	b := builder.New(testConfig(1))
	seed, err := b.AllocConst(ir.VInt(1))
	require.NoError(t, err)

	ctx := NewCtx(b, "block:integrator", seed)
	operand := b.SigTimeAbsMs()
	res, err := LowerIntegrator(ctx, operand)
	ctx.Done()
	require.NoError(t, err)
	require.Len(t, res.Outputs, 1)

	bp, err := b.Build()
	require.NoError(t, err)
	require.Len(t, bp.StateLayout, 1)
	assert.Equal(t, "block:integrator/acc", bp.StateLayout[0].DebugName)

	// The declared state satisfies the schedule compiler.
	_, warnings, err := schedule.Compile(bp)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestLowerGridDomain(t *testing.T) {
	b := builder.New(testConfig(3))
	seed, err := b.AllocConst(ir.VInt(3))
	require.NoError(t, err)

	ctx := NewCtx(b, "block:grid", seed)
	res, err := LowerGridDomain(ctx, 16)
	ctx.Done()
	require.NoError(t, err)
	require.Len(t, res.Declares.Domains, 1)

	bp, err := b.Build()
	require.NoError(t, err)
	d := bp.Domains[res.Declares.Domains[0]]
	assert.Equal(t, 16, d.Count)
	assert.Equal(t, "block:grid", d.Block)
}

func TestDemoPatchCompilesClean(t *testing.T) {
	bp, err := DemoPatch(testConfig(1))
	require.NoError(t, err)

	p, warnings, err := schedule.Compile(bp)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// The demo exercises every compiler surface.
	assert.NotEmpty(t, p.Sig)
	assert.NotEmpty(t, p.Field)
	assert.NotEmpty(t, p.Event)
	assert.NotEmpty(t, p.Consts)
	assert.NotEmpty(t, p.StateLayout)
	assert.NotEmpty(t, p.Domains)
	assert.NotEmpty(t, p.Buses)
	assert.NotEmpty(t, p.Chains)
	require.Len(t, p.Sinks, 1)

	kinds := make(map[ir.StepKind]bool)
	for _, s := range p.Schedule.Steps {
		kinds[s.Kind] = true
	}
	assert.True(t, kinds[ir.StepTimeDerive])
	assert.True(t, kinds[ir.StepSignalEval])
	assert.True(t, kinds[ir.StepNodeEval])
	assert.True(t, kinds[ir.StepMaterialize])
	assert.True(t, kinds[ir.StepMaterializeColor])
	assert.True(t, kinds[ir.StepRenderAssemble])
}

func TestDemoPatchRoundTrips(t *testing.T) {
	bp, err := DemoPatch(testConfig(9))
	require.NoError(t, err)
	p, _, err := schedule.Compile(bp)
	require.NoError(t, err)

	data, err := ir.EncodeProgram(p, false)
	require.NoError(t, err)
	decoded, err := ir.DecodeProgram(data)
	require.NoError(t, err)

	again, err := ir.EncodeProgram(decoded, false)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}
