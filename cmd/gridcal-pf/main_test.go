package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCase(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "trace.json")
	plotPath := filepath.Join(dir, "trace.png")

	out, err := execute(t, "--case", "two-bus", "--trace", tracePath, "--plot", plotPath)
	require.NoError(t, err)
	assert.Contains(t, out, "network two-bus")
	assert.Contains(t, out, "converged=true")
	assert.Regexp(t, `iterations [1-9]`, out)

	data, err := os.ReadFile(tracePath)
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "two-bus", record["name"])
	assert.FileExists(t, plotPath)
}

func TestRunWithOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver_type: LM\nmax_iterations: 60\n"), 0o600))
	out, err := execute(t, "--case", "five-bus", "--options", path)
	require.NoError(t, err)
	assert.Contains(t, out, `method=LM`)
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "--case", "nope")
	assert.ErrorContains(t, err, "unknown case")

	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver_type: HELM\n"), 0o600))
	_, err = execute(t, "--options", path)
	assert.Error(t, err)
}

func TestListCases(t *testing.T) {
	out, err := execute(t, "cases")
	require.NoError(t, err)
	names := strings.Fields(out)
	assert.Contains(t, names, "two-bus")
	assert.Contains(t, names, "pv-qlimit")
}
