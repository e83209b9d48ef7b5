package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

func step(id ir.StepID, deps ...ir.StepID) ir.Step {
	return ir.Step{ID: id, Kind: ir.StepDebugProbe, DependsOn: deps}
}

func ids(steps []ir.Step) []ir.StepID {
	out := make([]ir.StepID, len(steps))
	for i, s := range steps {
		out[i] = s.ID
	}
	return out
}

func TestTopoSortRespectsDependencies(t *testing.T) {
	ordered, err := topoSort([]ir.Step{
		step("c", "b"),
		step("b", "a"),
		step("a"),
	})
	require.NoError(t, err)
	assert.Equal(t, []ir.StepID{"a", "b", "c"}, ids(ordered))
}

func TestTopoSortLexicographicTieBreak(t *testing.T) {
	// All three are ready at once; the smallest step ID runs first
	// regardless of emission order.
	ordered, err := topoSort([]ir.Step{
		step("m"),
		step("z"),
		step("a"),
	})
	require.NoError(t, err)
	assert.Equal(t, []ir.StepID{"a", "m", "z"}, ids(ordered))
}

func TestTopoSortTieBreakAfterRelease(t *testing.T) {
	// b and a both become ready when root finishes; a wins the tie even
	// though b was emitted first.
	ordered, err := topoSort([]ir.Step{
		step("root"),
		step("b", "root"),
		step("a", "root"),
	})
	require.NoError(t, err)
	assert.Equal(t, []ir.StepID{"root", "a", "b"}, ids(ordered))
}

func TestTopoSortIndependentOfEmissionOrder(t *testing.T) {
	forward := []ir.Step{step("a"), step("b", "a"), step("c", "a"), step("d", "b", "c")}
	backward := []ir.Step{step("d", "b", "c"), step("c", "a"), step("b", "a"), step("a")}

	fromForward, err := topoSort(forward)
	require.NoError(t, err)
	fromBackward, err := topoSort(backward)
	require.NoError(t, err)
	assert.Equal(t, ids(fromForward), ids(fromBackward))
}

func TestTopoSortDetectsCycle(t *testing.T) {
	_, err := topoSort([]ir.Step{
		step("a", "b"),
		step("b", "a"),
	})
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeStepCycle))
}

func TestTopoSortRejectsDuplicateIDs(t *testing.T) {
	_, err := topoSort([]ir.Step{step("a"), step("a")})
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeStepCycle))
}

func TestTopoSortRejectsUnknownDependency(t *testing.T) {
	_, err := topoSort([]ir.Step{step("a", "missing")})
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeStepCycle))
}
