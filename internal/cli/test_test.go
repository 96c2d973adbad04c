package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: quick_cause
description: cause right after write is accepted
steps:
  - write: L
  - cause: accident
    expect: { accepted: true }
assertions:
  - type: final_state
    name: L
    expect: { cause: accident }
`

const failingScenario = `name: wrong_cause
description: expectation that does not hold
steps:
  - write: L
  - cause_of: L
    expect: { value: accident }
`

func writeScenario(t *testing.T, dir, file, content string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTestCommand_HarnessScenarios(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("test", filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err, "output: %s", out)
	assert.Contains(t, out, "✓ karting")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeScenario(t, dir, "quick.yaml", passingScenario)

	_, err := env.run("test", "--update", dir)
	require.NoError(t, err)

	golden := filepath.Join(dir, "golden", "quick.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"quick_cause","trace":[`+
			`{"action":"write","arg":"L","at_ms":0,"outcome":"ok","seq":1},`+
			`{"action":"cause","arg":"accident","at_ms":0,"outcome":"accepted","seq":2}]}`,
		string(data))

	out, err := env.run("test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")

	require.NoError(t, os.WriteFile(golden, []byte(`{"scenario_name":"quick_cause","trace":[]}`), 0o644))
	out, err = env.run("test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommand_FailingScenarioJSON(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeScenario(t, dir, "pass.yaml", passingScenario)
	writeScenario(t, dir, "fail.yaml", failingScenario)

	out, err := env.run("--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result TestResult
	resp := decodeData(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
}

func TestTestCommand_Filter(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeScenario(t, dir, "pass.yaml", passingScenario)
	writeScenario(t, dir, "fail.yaml", failingScenario)

	out, err := env.run("test", "--filter", "pa*", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_InvalidScenario(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\nsteps: [{write: a}]\n")

	out, err := env.run("test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommand_NoScenarios(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("test", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestTestCommand_MissingDirectory(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
