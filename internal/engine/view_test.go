package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-lang/weft/internal/task"
	"github.com/weft-lang/weft/internal/value"
)

func TestView_MarshalJSON_ExactShape(t *testing.T) {
	reg, cell := allocCell(t, value.Int(0))
	watch, err := task.NewWatch(cell)
	require.NoError(t, err)
	root := &task.Pair{
		Left:  &task.Edit{Editor: &task.Enter{Type: value.IntType{}}},
		Right: watch,
	}
	s := newTestSession(t, root, reg)

	view, err := s.Normalize()
	require.NoError(t, err)
	data, err := view.MarshalJSON()
	require.NoError(t, err)

	assert.Equal(t,
		`{"leaves":[`+
			`{"name":"leaf-1","kind":"enter","type":"int"},`+
			`{"name":"leaf-2","kind":"watch","type":"int","value":0,"store":"cell-1","generation":0}`+
			`]}`,
		string(data))
}

func TestView_MarshalJSON_Terminal(t *testing.T) {
	s := newTestSession(t, &task.Lift{Value: value.Tuple{Fst: value.Int(1), Snd: value.Unit{}}}, nil)
	view, err := s.Normalize()
	require.NoError(t, err)

	data, err := view.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"leaves":[],"terminal":[1,[]]}`, string(data))
}

func TestView_MarshalJSON_SelectLeaf(t *testing.T) {
	s := newTestSession(t, pickOneOf(), nil)
	view, err := s.Normalize()
	require.NoError(t, err)

	data, err := view.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"leaves":[{"name":"leaf-1","kind":"select","value":[],"labels":["one","two"]}]}`,
		string(data))
}

func TestView_Lookup(t *testing.T) {
	s := newTestSession(t, &task.Edit{Editor: &task.Enter{Type: value.IntType{}}}, nil)
	view, err := s.Normalize()
	require.NoError(t, err)

	leaf, ok := view.Lookup("leaf-1")
	require.True(t, ok)
	assert.Equal(t, "enter", leaf.Kind)

	_, ok = view.Lookup("leaf-2")
	assert.False(t, ok)
}

func TestView_ResolvedOnlyWithTerminal(t *testing.T) {
	interactive := &View{Leaves: []Leaf{{Name: "leaf-1"}}}
	assert.False(t, interactive.Resolved())

	terminal := &View{Terminal: value.Int(1)}
	assert.True(t, terminal.Resolved())
}
