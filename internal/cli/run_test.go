package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommand_TextOutput(t *testing.T) {
	path := writeScenario(t, entryScenario)

	out, _, err := executeCommand("run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Scenario: entry_flow")
	assert.Contains(t, out, "Program:  entry")
	assert.Contains(t, out, "Steps:    1")
	assert.Contains(t, out, "Outcome:  ok")
}

func TestRunCommand_JSONOutput(t *testing.T) {
	path := writeScenario(t, entryScenario)

	out, _, err := executeCommand("run", path, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "entry_flow", data["scenario"])
	assert.Equal(t, "entry", data["program"])
	assert.NotNil(t, data["final_view"])
}

func TestRunCommand_ExpectErrorScenario(t *testing.T) {
	path := writeScenario(t, `name: spin_guard
description: "Detected non-productive recursion"
program: spin
expect_error: NON_PRODUCTIVE_RECURSION
`)

	out, _, err := executeCommand("run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "failed as expected with NON_PRODUCTIVE_RECURSION")
}

func TestRunCommand_FailedAssertionExitsNonZero(t *testing.T) {
	path := writeScenario(t, `name: wrong
description: "Assertion mismatch"
program: entry
events:
  - kind: enter
    leaf: 0
    value: 5
assertions:
  - type: view_shows
    leaf: 0
    value: 6
`)

	_, _, err := executeCommand("run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRunCommand_MissingScenarioFile(t *testing.T) {
	_, _, err := executeCommand("run", "/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_JournalRecordsSteps(t *testing.T) {
	scenarioPath := writeScenario(t, entryScenario)
	journalPath := filepath.Join(t.TempDir(), "steps.db")

	_, _, err := executeCommand("run", scenarioPath, "--journal", journalPath)
	require.NoError(t, err)

	out, _, err := executeCommand("trace", "--journal", journalPath)
	require.NoError(t, err)
	assert.Contains(t, out, `{"kind":"enter","name":"leaf-1","value":5}`)
	assert.Contains(t, out, "1 step(s)")
}
