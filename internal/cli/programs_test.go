package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramsCommand_ListsCatalog(t *testing.T) {
	out, _, err := executeCommand("programs")
	require.NoError(t, err)
	assert.Contains(t, out, "entry")
	assert.Contains(t, out, "shared-cell")
	assert.Contains(t, out, "spin")
}

func TestProgramsCommand_JSON(t *testing.T) {
	out, _, err := executeCommand("programs", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	list, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.NotEmpty(t, list)
}
