package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	content := `
name: entry_flow
description: "Fill a single editor"
program: entry
events:
  - kind: enter
    leaf: 0
    value: 5
assertions:
  - type: view_shows
    leaf: 0
    kind: update
    value: 5
  - type: leaf_count
    count: 1
`
	scenario, err := ParseScenario([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, "entry_flow", scenario.Name)
	assert.Equal(t, "entry", scenario.Program)
	require.Len(t, scenario.Events, 1)
	assert.Equal(t, "enter", scenario.Events[0].Kind)
	require.NotNil(t, scenario.Events[0].Leaf)
	assert.Equal(t, 0, *scenario.Events[0].Leaf)
	assert.Equal(t, 5, scenario.Events[0].Value)
	require.Len(t, scenario.Assertions, 2)
	assert.Equal(t, AssertViewShows, scenario.Assertions[0].Type)
}

func TestParseScenario_UnknownFieldRejected(t *testing.T) {
	content := `
name: typo
description: "has a misspelled field"
program: entry
evnets:
  - kind: enter
    leaf: 0
    value: 5
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
}

func TestParseScenario_BadEventKind(t *testing.T) {
	content := `
name: bad_kind
description: "event kind outside the enum"
program: entry
events:
  - kind: push
    leaf: 0
    value: 5
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
}

func TestParseScenario_EnterRequiresValue(t *testing.T) {
	content := `
name: no_value
description: "enter without a value"
program: entry
events:
  - kind: enter
    leaf: 0
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value is required")
}

func TestParseScenario_SelectRequiresLabel(t *testing.T) {
	content := `
name: no_label
description: "select without a label"
program: labeled-choice
events:
  - kind: select
    leaf: 0
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label is required")
}

func TestParseScenario_AssignRequiresStore(t *testing.T) {
	content := `
name: no_store
description: "assign without a store index"
program: shared-cell
events:
  - kind: assign
    value: 5
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store is required")
}

func TestParseScenario_ExpectErrorTakesNoEvents(t *testing.T) {
	content := `
name: conflicting
description: "expect_error plus events"
program: spin
expect_error: NON_PRODUCTIVE_RECURSION
events:
  - kind: enter
    leaf: 0
    value: 1
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no events or assertions")
}

func TestParseScenario_MissingDescription(t *testing.T) {
	content := `
name: terse
program: entry
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
}

func TestParseScenario_UnknownAssertionType(t *testing.T) {
	content := `
name: bad_assert
description: "assertion type outside the enum"
program: entry
assertions:
  - type: trace_contains
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_FromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	content := `
name: disk
description: "loaded from a file"
program: entry
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "disk", scenario.Name)
}

func TestValidateScenarioBytes_MalformedYAML(t *testing.T) {
	err := ValidateScenarioBytes([]byte("name: [unclosed"))
	require.Error(t, err)
}
