// Package combinator derives the usual composition operators purely from
// the task-tree primitives: parallel collection, list choice, guarded
// branching, label dispatch, and user-routed repetition.
//
// Repeat and Forever unfold one iteration per normalization through Step
// continuations, so iteration is driven by the engine rather than by host
// recursion; an iteration body without an interaction point is caught by
// the engine's non-productive-recursion guard.
package combinator

import (
	"strconv"

	"github.com/weft-lang/weft/internal/task"
	"github.com/weft-lang/weft/internal/value"
)

// Parallel composes tasks into one task collecting every result
// positionally: the combined result is a record keyed "0".."n-1".
// An empty list is immediately the empty record.
func Parallel(tasks []task.Task) task.Task {
	if len(tasks) == 0 {
		return &task.Lift{Value: value.Record{}}
	}

	tree := task.Task(&task.Lift{Value: value.Unit{}})
	for i := len(tasks) - 1; i >= 0; i-- {
		tree = &task.Pair{Left: tasks[i], Right: tree}
	}

	n := len(tasks)
	return &task.Trans{
		Fn:    func(v value.Value) value.Value { return collectPositional(v, n) },
		Inner: tree,
	}
}

// collectPositional flattens the tuple spine built by Parallel into an
// indexed record.
func collectPositional(v value.Value, n int) value.Value {
	rec := make(value.Record, n)
	for i := 0; i < n; i++ {
		t, ok := v.(value.Tuple)
		if !ok {
			// The spine is built by Parallel itself; a mismatch is a
			// programming error, not a user input.
			panic("combinator: parallel result lost its tuple spine")
		}
		rec[strconv.Itoa(i)] = t.Fst
		v = t.Snd
	}
	return rec
}

// ChooseOf folds alternatives into nested internal choices, identity Fail.
// When several alternatives are simultaneously viable the leftmost
// non-failing one wins.
func ChooseOf(tasks ...task.Task) task.Task {
	result := task.Task(&task.Fail{})
	for i := len(tasks) - 1; i >= 0; i-- {
		result = &task.Choose{Left: tasks[i], Right: result}
	}
	return result
}

// Arm is one guarded alternative of Branch.
type Arm struct {
	When bool
	Then task.Task
}

// Branch picks the first arm whose guard is true. With no true guard the
// branch is Fail.
func Branch(arms []Arm) task.Task {
	for _, arm := range arms {
		if arm.When {
			return arm.Then
		}
	}
	return &task.Fail{}
}

// Opt builds a Select option that ignores the dispatch value.
func Opt(label string, t task.Task) task.Option {
	return task.Option{
		Label: label,
		Cont:  func(value.Value) task.Task { return t },
	}
}

// Pick dispatches purely by label: a Select over the trivial unit input.
func Pick(options ...task.Option) task.Task {
	return &task.Select{
		Inner:   &task.Lift{Value: value.Unit{}},
		Options: options,
	}
}

// Repeat runs t, then offers the user the choice between repeating it and
// exiting with the last result. Routing is explicit: the loop never
// re-enters on its own, and the exit option only exists once an iteration
// has completed.
func Repeat(t task.Task) task.Task {
	return &task.Step{
		Inner: t,
		Cont: func(last value.Value) task.Task {
			return &task.Select{
				Inner: &task.Lift{Value: last},
				Options: []task.Option{
					{Label: "repeat", Cont: func(value.Value) task.Task { return Repeat(t) }},
					{Label: "exit", Cont: func(v value.Value) task.Task { return &task.Lift{Value: v} }},
				},
			}
		},
	}
}

// Forever self-composes t without end. The body must pass through a
// productive interaction point each iteration; otherwise normalization
// reports NonProductiveRecursion.
func Forever(t task.Task) task.Task {
	return &task.Step{
		Inner: t,
		Cont:  func(value.Value) task.Task { return Forever(t) },
	}
}
