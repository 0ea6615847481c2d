package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_ValidFile(t *testing.T) {
	path := writeScenario(t, entryScenario)

	out, _, err := executeCommand("validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "entry_flow")
	assert.Contains(t, out, "1 valid, 0 invalid")
}

func TestValidateCommand_InvalidFile(t *testing.T) {
	path := writeScenario(t, `name: broken
description: "event kind outside the enum"
program: entry
events:
  - kind: push
    leaf: 0
    value: 1
`)

	out, _, err := executeCommand("validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL")
}

func TestValidateCommand_UnknownProgram(t *testing.T) {
	path := writeScenario(t, `name: ghost
description: "references a program outside the catalog"
program: no-such-program
`)

	out, _, err := executeCommand("validate", path)
	require.Error(t, err)
	assert.Contains(t, out, "unknown fixture program")
}

func TestValidateCommand_MixedFiles(t *testing.T) {
	good := writeScenario(t, entryScenario)
	bad := writeScenario(t, "not: [valid")

	out, _, err := executeCommand("validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "1 valid, 1 invalid")
}
