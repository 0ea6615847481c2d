package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-lang/weft/internal/store"
	"github.com/weft-lang/weft/internal/testutil"
	"github.com/weft-lang/weft/internal/value"
)

func newCell(t *testing.T, initial value.Value) *store.Cell {
	t.Helper()
	reg, capability := store.NewRegistry(testutil.NewSequence("cell"))
	cell, err := reg.Allocate(capability, initial)
	require.NoError(t, err)
	return cell
}

func TestNewWatch_PrimedFromCell(t *testing.T) {
	cell := newCell(t, value.Int(42))

	edit, err := NewWatch(cell)
	require.NoError(t, err)

	watch, ok := edit.Editor.(*Watch)
	require.True(t, ok)
	assert.Equal(t, value.Int(42), watch.Value)
	assert.Equal(t, int64(0), watch.Gen)
	assert.Equal(t, cell, watch.Cell)
}

func TestNewChange_PrimedFromCell(t *testing.T) {
	cell := newCell(t, value.Text("hello"))
	_, err := cell.Write(value.Text("world"))
	require.NoError(t, err)

	edit, err := NewChange(cell)
	require.NoError(t, err)

	change, ok := edit.Editor.(*Change)
	require.True(t, ok)
	assert.Equal(t, value.Text("world"), change.Value)
	assert.Equal(t, int64(1), change.Gen)
}

func TestEditorType_PerVariant(t *testing.T) {
	cell := newCell(t, value.Int(1))
	watch, err := NewWatch(cell)
	require.NoError(t, err)
	change, err := NewChange(cell)
	require.NoError(t, err)

	assert.Equal(t, "int", EditorType(&Enter{Type: value.IntType{}}).String())
	assert.Equal(t, "text", EditorType(&Update{Value: value.Text("x")}).String())
	assert.Equal(t, "bool", EditorType(&View{Value: value.Bool(true)}).String())
	assert.Equal(t, "int", EditorType(watch.Editor).String())
	assert.Equal(t, "int", EditorType(change.Editor).String())
}

func TestEditorKind_PerVariant(t *testing.T) {
	cell := newCell(t, value.Int(1))
	watch, err := NewWatch(cell)
	require.NoError(t, err)
	change, err := NewChange(cell)
	require.NoError(t, err)

	assert.Equal(t, "enter", EditorKind(&Enter{Type: value.IntType{}}))
	assert.Equal(t, "update", EditorKind(&Update{Value: value.Int(1)}))
	assert.Equal(t, "view", EditorKind(&View{Value: value.Int(1)}))
	assert.Equal(t, "watch", EditorKind(watch.Editor))
	assert.Equal(t, "change", EditorKind(change.Editor))
}

func TestName_Named(t *testing.T) {
	assert.False(t, Unnamed.Named())
	assert.True(t, Name("leaf-1").Named())
}
