package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/testutil"
)

func TestSummarize(t *testing.T) {
	p := testutil.CompileDemo(t, 1)

	s, err := Summarize(p)
	require.NoError(t, err)

	assert.Equal(t, "patch-demo", s.PatchID)
	assert.Equal(t, int64(7), s.PatchRevision)
	assert.Equal(t, ir.IRVersion, s.IRVersion)
	assert.Equal(t, int64(1), s.Seed)
	assert.Len(t, s.Digest, 64)
	assert.Equal(t, string(p.TimeModel.Kind), s.TimeModel)

	assert.Equal(t, len(p.Sig), s.SigNodes)
	assert.Equal(t, len(p.Field), s.FieldNodes)
	assert.Equal(t, len(p.Consts), s.Consts)
	assert.Equal(t, p.NumSlots, s.Slots)
	assert.Equal(t, len(p.Schedule.Steps), s.Steps)

	total := 0
	for _, n := range s.StepKinds {
		total += n
	}
	assert.Equal(t, s.Steps, total)
	assert.Equal(t, 1, s.StepKinds[string(ir.StepTimeDerive)])
}

func TestSummaryRenderText(t *testing.T) {
	p := testutil.CompileMinimal(t, 1)
	s, err := Summarize(p)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, s.Render(buf, "text"))

	out := buf.String()
	assert.Contains(t, out, "patch-minimal@1")
	assert.Contains(t, out, "digest:")
	assert.Contains(t, out, string(ir.StepTimeDerive))
}

func TestSummaryRenderJSON(t *testing.T) {
	p := testutil.CompileMinimal(t, 1)
	s, err := Summarize(p)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, s.Render(buf, "json"))

	var decoded Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, s.PatchID, decoded.PatchID)
	assert.Equal(t, s.Digest, decoded.Digest)
	assert.Equal(t, s.StepKinds, decoded.StepKinds)
}

func TestSummaryRenderYAML(t *testing.T) {
	p := testutil.CompileMinimal(t, 1)
	s, err := Summarize(p)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, s.Render(buf, "yaml"))

	var decoded Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, s.PatchID, decoded.PatchID)
	assert.Equal(t, s.Steps, decoded.Steps)
}
