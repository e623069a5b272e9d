package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supportkit/pathfinder/pkg/adapters/file"
	"github.com/supportkit/pathfinder/pkg/domain"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "none.env")))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pathfinder version ")
}

func TestGraphCommand(t *testing.T) {
	t.Setenv("PATHFINDER_FLOW_FILE", "")
	out, _, err := execute(t, "graph", "--path", "cancel/before_pickup")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "class n_cancel__before_pickup current;")

	_, _, err = execute(t, "graph", "--path", "cancel/nowhere")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`flow: demo
categories:
  - id: refund
    title: Refund
    final: true
`), 0o644))

	out, _, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, `Flow "demo" is valid!`)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`flow: demo
categories:
  - id: refund
    title: Refund
  - id: refund
    title: Again
    final: true
`), 0o644))

	_, stderr, err := execute(t, "validate", bad)
	assert.EqualError(t, err, "flow is invalid")
	assert.Contains(t, stderr, "Validation failed:")
	assert.Contains(t, stderr, "refund")
}

func TestSessionCommandNeedsStore(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PATHFINDER_SESSION_DIR", "")
	_, _, err := execute(t, "session", "ls")
	assert.ErrorContains(t, err, "neither REDIS_ADDR nor PATHFINDER_SESSION_DIR is set")
}

func TestSessionCommandsOnFileStore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PATHFINDER_FLOW_FILE", "")
	t.Setenv("PATHFINDER_SESSION_DIR", dir)

	out, _, err := execute(t, "session", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No active sessions found.")

	s := domain.NewSession("desk-1")
	s.Path = domain.Path{"cancel", "before_pickup"}
	require.NoError(t, file.NewStore(dir).Save(context.Background(), "desk-1", s))

	out, _, err = execute(t, "session", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "- desk-1")

	out, _, err = execute(t, "session", "inspect", "desk-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"before_pickup"`)

	out, _, err = execute(t, "session", "rm", "desk-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 'desk-1'")

	_, _, err = execute(t, "session", "inspect", "desk-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
