package engine

import (
	"github.com/weft-lang/weft/internal/task"
	"github.com/weft-lang/weft/internal/value"
)

// resultOf returns a task's currently observable result, if it has one.
//
// A pure Lift has its value; a value-bearing editor (Update, View, Watch,
// Change) has its current value; an empty Enter has none. A Pair has a
// result once both sides do, a Trans maps its inner result, and a Choose
// observes only its exposed left branch. Select and Step have no result of
// their own until they fire.
//
// This is what lets sequencing observe an editor without consuming it: a
// Step fires off the editor's current value, and a Select offers its labels
// once the inner task's result is defined.
func resultOf(t task.Task) (value.Value, bool) {
	switch n := t.(type) {
	case *task.Lift:
		return n.Value, true

	case *task.Edit:
		switch ed := n.Editor.(type) {
		case *task.Update:
			return ed.Value, true
		case *task.View:
			return ed.Value, true
		case *task.Watch:
			return ed.Value, true
		case *task.Change:
			return ed.Value, true
		default:
			// Enter has no value yet.
			return nil, false
		}

	case *task.Pair:
		l, okL := resultOf(n.Left)
		if !okL {
			return nil, false
		}
		r, okR := resultOf(n.Right)
		if !okR {
			return nil, false
		}
		return value.Tuple{Fst: l, Snd: r}, true

	case *task.Trans:
		v, ok := resultOf(n.Inner)
		if !ok {
			return nil, false
		}
		return n.Fn(v), true

	case *task.Choose:
		// Only the exposed left branch contributes a result.
		return resultOf(n.Left)

	default:
		return nil, false
	}
}

var (
	boolTrue  = value.Bool(true)
	unitValue = value.Unit{}
)

func tupleOf(a, b value.Value) value.Value {
	return value.Tuple{Fst: a, Snd: b}
}
