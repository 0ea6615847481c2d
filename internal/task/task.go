package task

import (
	"github.com/weft-lang/weft/internal/store"
	"github.com/weft-lang/weft/internal/value"
)

// Name is the stable identity of an interactive leaf. The zero Name means
// the leaf has not been exposed yet; the normalizer assigns a fresh token
// the first time a leaf appears in a normal-form snapshot.
type Name string

// Unnamed is the zero Name.
const Unnamed Name = ""

// Named reports whether the name has been assigned.
func (n Name) Named() bool {
	return n != Unnamed
}

// Task is a sealed interface over the closed task-tree variant set.
// Only the types in this file implement it. The normalizer and step engine
// match on it exhaustively; an unknown variant is a programming error.
type Task interface {
	task() // Sealed - only these types implement it
}

// Edit is an interactive leaf wrapping one editor.
type Edit struct {
	Name   Name
	Editor Editor
}

func (*Edit) task() {}

// Option is one labeled continuation of a Select.
type Option struct {
	Label string
	Cont  func(value.Value) Task
}

// Select offers labeled continuations over an inner task. The labels become
// addressable once the inner task has an observable result; picking one
// applies the continuation to that result.
type Select struct {
	Name    Name
	Inner   Task
	Options []Option
}

func (*Select) task() {}

// Lift is a pure result. A tree that normalizes to Lift is terminal.
type Lift struct {
	Value value.Value
}

func (*Lift) task() {}

// Pair composes two tasks that progress independently within shared steps.
// It collapses to Lift of a Tuple once both sides are pure.
type Pair struct {
	Left  Task
	Right Task
}

func (*Pair) task() {}

// Choose is the internal, non-user-visible alternative. Normalization keeps
// the left branch when both are viable; the right branch is retained for
// future steps but contributes no visible leaves.
type Choose struct {
	Left  Task
	Right Task
}

func (*Choose) task() {}

// Fail is the empty task. It is a first-class value, not an error channel:
// it propagates only through choice resolution.
type Fail struct{}

func (*Fail) task() {}

// Trans maps the result of the inner task.
type Trans struct {
	Fn    func(value.Value) value.Value
	Inner Task
}

func (*Trans) task() {}

// Step sequences a continuation after the inner task has a result.
type Step struct {
	Inner Task
	Cont  func(value.Value) Task
}

func (*Step) task() {}

// Assert normalizes to Lift(true) when the condition holds and to Fail
// otherwise, so it can guard branches of a choice.
type Assert struct {
	Cond bool
}

func (*Assert) task() {}

// Assign writes a value into a shared cell when normalized, then resolves
// to Lift(unit).
type Assign struct {
	Cell  *store.Cell
	Value value.Value
}

func (*Assign) task() {}
