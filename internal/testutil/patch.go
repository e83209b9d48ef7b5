// Package testutil provides shared patch fixtures for compiler tests.
//
// Fixtures are deterministic: the same seed produces byte-identical
// compiled programs, so tests may compare encodings directly.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/builder"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/lower"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/schedule"
)

// MinimalPatch builds the smallest patch the schedule compiler accepts as a
// renderable program: one animated radius signal, one constant position
// field over a 4-element synthetic domain, one 2D instance sink.
func MinimalPatch(t *testing.T, seed int64) *ir.BuilderProgram {
	t.Helper()

	b := builder.New(builder.Config{
		PatchID:       "patch-minimal",
		PatchRevision: 1,
		Seed:          seed,
	})
	b.SetCurrentBlock("block:minimal")

	phase := b.SigPhase01()
	radius := b.SigMap("sin01", phase, ir.SignalType(ir.DomainFloat))
	radiusType := ir.SignalType(ir.DomainFloat)
	radiusSlot := b.AllocValueSlot(&radiusType, "radius")
	b.RegisterSigSlot(radius, radiusSlot)

	domainID := b.DomainFromN(4)

	posConst, err := b.AllocConst(ir.Vec2(0, 0))
	require.NoError(t, err)
	posType := ir.FieldType(ir.DomainVec2)
	positions := b.FieldConst(posConst, posType)
	posSlot := b.AllocValueSlot(&posType, "positions")
	b.RegisterFieldSlot(positions, posSlot)

	_, err = b.RenderSink(ir.SinkInstances2D, []ir.SinkInput{
		{Name: ir.SinkInputDomain, Slot: b.DomainSlot(domainID), Type: ir.SpecialType(ir.DomainDomainRef)},
		{Name: ir.SinkInputPositions, Slot: posSlot, Type: posType, Field: positions, Domain: domainID},
		{Name: ir.SinkInputRadius, Slot: radiusSlot, Type: radiusType},
	})
	require.NoError(t, err)
	b.ClearCurrentBlock()

	bp, err := b.Build()
	require.NoError(t, err)
	return bp
}

// CompileMinimal compiles MinimalPatch and requires a clean compile.
func CompileMinimal(t *testing.T, seed int64) *ir.CompiledProgram {
	t.Helper()
	p, warnings, err := schedule.Compile(MinimalPatch(t, seed))
	require.NoError(t, err)
	require.Empty(t, warnings)
	return p
}

// CompileDemo compiles the full reference patch with a fixed patch identity.
func CompileDemo(t *testing.T, seed int64) *ir.CompiledProgram {
	t.Helper()
	bp, err := lower.DemoPatch(builder.Config{
		PatchID:       "patch-demo",
		PatchRevision: 7,
		Seed:          seed,
	})
	require.NoError(t, err)
	p, warnings, err := schedule.Compile(bp)
	require.NoError(t, err)
	require.Empty(t, warnings)
	return p
}
