package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// runCommand executes a fresh root command and returns its combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestDemoCommandWritesProgram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.json")

	out, err := runCommand(t, "-v", "demo", "-o", path, "--seed", "2", "--patch-id", "patch-cli")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	p, err := ir.DecodeProgram(data)
	require.NoError(t, err)
	assert.Equal(t, "patch-cli", p.PatchID)
	assert.Equal(t, int64(2), p.Seed)
	assert.NotEmpty(t, p.Schedule.Steps)
}

func TestDemoCommandStdout(t *testing.T) {
	out, err := runCommand(t, "demo", "-o", "-", "--patch-id", "patch-cli")
	require.NoError(t, err)

	p, err := ir.DecodeProgram([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "patch-cli", p.PatchID)
}

func TestDemoCommandIsDeterministic(t *testing.T) {
	first, err := runCommand(t, "demo", "-o", "-", "--seed", "9", "--patch-id", "patch-cli")
	require.NoError(t, err)
	second, err := runCommand(t, "demo", "-o", "-", "--seed", "9", "--patch-id", "patch-cli")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInspectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.json")
	_, err := runCommand(t, "demo", "-o", path, "--patch-id", "patch-cli")
	require.NoError(t, err)

	out, err := runCommand(t, "--format", "json", "inspect", path)
	require.NoError(t, err)

	var s Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "patch-cli", s.PatchID)
	assert.Positive(t, s.Steps)
}

func TestInspectCommandMissingFile(t *testing.T) {
	_, err := runCommand(t, "inspect", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestVerifyCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.json")
	_, err := runCommand(t, "demo", "-o", path, "--patch-id", "patch-cli")
	require.NoError(t, err)

	out, err := runCommand(t, "verify", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok "+path)
	assert.Contains(t, out, "digest=")
}

func TestVerifyCommandRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := runCommand(t, "verify", path)
	require.Error(t, err)
}

func TestArchiveWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "program.json")
	dbPath := filepath.Join(tmpDir, "archive.db")

	_, err := runCommand(t, "demo", "-o", path, "--patch-id", "patch-cli")
	require.NoError(t, err)
	programBytes, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := runCommand(t, "archive", "--db", dbPath, "put", path)
	require.NoError(t, err)
	assert.Contains(t, out, "archived patch-cli@1 digest=")

	out, err = runCommand(t, "archive", "--db", dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "PATCH")
	assert.Contains(t, out, "patch-cli")

	// Default revision is "latest".
	out, err = runCommand(t, "archive", "--db", dbPath, "get", "patch-cli")
	require.NoError(t, err)
	assert.Equal(t, string(programBytes), out)

	out, err = runCommand(t, "archive", "--db", dbPath, "get", "patch-cli", "--revision", "1")
	require.NoError(t, err)
	assert.Equal(t, string(programBytes), out)
}

func TestArchiveGetMissing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	_, err := runCommand(t, "archive", "--db", dbPath, "get", "absent")
	require.Error(t, err)
}

func TestArchiveListEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "archive.db")
	out, err := runCommand(t, "archive", "--db", dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no archived programs")
}
