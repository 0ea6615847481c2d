package task

import (
	"fmt"

	"github.com/weft-lang/weft/internal/store"
	"github.com/weft-lang/weft/internal/value"
)

// Editor is a sealed interface over the closed editor variant set.
// Only Enter, Update, View, Watch, and Change implement it.
type Editor interface {
	editor() // Sealed - only these types implement it
}

// Enter awaits a value of the declared type. It has no current value.
type Enter struct {
	Type value.Type
}

func (*Enter) editor() {}

// Update is a pre-filled, editable value.
type Update struct {
	Value value.Value
}

func (*Update) editor() {}

// View is a read-only value.
type View struct {
	Value value.Value
}

func (*View) editor() {}

// Watch is a read-only reactive binding to a shared cell. Value and Gen
// cache the last observation; the normalizer re-derives them whenever the
// cell's generation has moved past Gen.
type Watch struct {
	Cell  *store.Cell
	Value value.Value
	Gen   int64
}

func (*Watch) editor() {}

// Change is an editable reactive binding to a shared cell. Input addressed
// at a Change leaf writes through to the cell. Like Watch, it is re-derived
// from the cell when stale, discarding any local interaction state.
type Change struct {
	Cell  *store.Cell
	Value value.Value
	Gen   int64
}

func (*Change) editor() {}

// NewWatch builds a Watch leaf primed with the cell's current value.
func NewWatch(c *store.Cell) (*Edit, error) {
	v, gen, err := c.Read()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	return &Edit{Editor: &Watch{Cell: c, Value: v, Gen: gen}}, nil
}

// NewChange builds a Change leaf primed with the cell's current value.
func NewChange(c *store.Cell) (*Edit, error) {
	v, gen, err := c.Read()
	if err != nil {
		return nil, fmt.Errorf("change: %w", err)
	}
	return &Edit{Editor: &Change{Cell: c, Value: v, Gen: gen}}, nil
}

// EditorType returns the declared type of an editor: the Enter declaration,
// or the type of the current value for the value-bearing editors.
func EditorType(e Editor) value.Type {
	switch ed := e.(type) {
	case *Enter:
		return ed.Type
	case *Update:
		return value.TypeOf(ed.Value)
	case *View:
		return value.TypeOf(ed.Value)
	case *Watch:
		return value.TypeOf(ed.Value)
	case *Change:
		return value.TypeOf(ed.Value)
	default:
		panic(fmt.Sprintf("task: unknown editor variant %T", e))
	}
}

// EditorKind names an editor variant for views and journals.
func EditorKind(e Editor) string {
	switch e.(type) {
	case *Enter:
		return "enter"
	case *Update:
		return "update"
	case *View:
		return "view"
	case *Watch:
		return "watch"
	case *Change:
		return "change"
	default:
		panic(fmt.Sprintf("task: unknown editor variant %T", e))
	}
}
