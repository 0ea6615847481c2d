package engine

import (
	"fmt"

	"github.com/weft-lang/weft/internal/task"
	"github.com/weft-lang/weft/internal/value"
)

// Apply consumes one external input event, rewriting the addressed leaf's
// subtree. The tree must be in normal form; call Normalize first and again
// afterwards to obtain the next view.
//
// Validation precedes mutation: an erroring event leaves both the tree and
// the cell registry untouched.
func (s *Session) Apply(ev Event) error {
	if s.view == nil {
		return fmt.Errorf("apply: tree is not in normal form; call Normalize first")
	}

	var err error
	switch e := ev.(type) {
	case EnterValue:
		err = s.applyEnter(e)
	case SelectOption:
		err = s.applySelect(e)
	case AssignToStore:
		err = s.applyAssign(e)
	default:
		err = fmt.Errorf("apply: unknown event variant %T", ev)
	}
	if err != nil {
		return err
	}

	// The tree is no longer normal; invalidate the view.
	s.view = nil
	s.steps++
	s.logger.Info("input applied", "event", ev.String(), "step", s.steps)
	return nil
}

// applyEnter validates and applies an EnterValue event. Enter becomes a
// pre-filled Update holding the value; Update replaces its value; Change
// additionally writes through to its cell.
func (s *Session) applyEnter(e EnterValue) error {
	if e.Value == nil {
		return newTypeMismatch(e.Name, "no value supplied")
	}

	node := findNamed(s.root, e.Name)
	if node == nil {
		return newUnknownName(e.Name)
	}
	edit, ok := node.(*task.Edit)
	if !ok {
		return newTypeMismatch(e.Name, "addressed leaf is a selection, not a value editor")
	}

	switch ed := edit.Editor.(type) {
	case *task.Enter:
		if !ed.Type.Accepts(e.Value) {
			return newTypeMismatch(e.Name,
				fmt.Sprintf("value %s does not inhabit declared type %s",
					value.String(e.Value), ed.Type.String()))
		}
		edit.Editor = &task.Update{Value: e.Value}
		return nil

	case *task.Update:
		declared := value.TypeOf(ed.Value)
		if !declared.Accepts(e.Value) {
			return newTypeMismatch(e.Name,
				fmt.Sprintf("value %s does not inhabit declared type %s",
					value.String(e.Value), declared.String()))
		}
		edit.Editor = &task.Update{Value: e.Value}
		return nil

	case *task.Change:
		declared := value.TypeOf(ed.Value)
		if !declared.Accepts(e.Value) {
			return newTypeMismatch(e.Name,
				fmt.Sprintf("value %s does not inhabit declared type %s",
					value.String(e.Value), declared.String()))
		}
		gen, err := ed.Cell.Write(e.Value)
		if err != nil {
			return assignError(ed.Cell.ID(), err)
		}
		edit.Editor = &task.Change{Cell: ed.Cell, Value: e.Value, Gen: gen}
		return nil

	default:
		// View and Watch are read-only.
		return newTypeMismatch(e.Name, "addressed editor is read-only")
	}
}

// applySelect validates and applies a SelectOption event, rewriting the
// Select to the chosen continuation applied to the inner task's current
// result.
func (s *Session) applySelect(e SelectOption) error {
	node := findNamed(s.root, e.Name)
	if node == nil {
		return newUnknownName(e.Name)
	}
	sel, ok := node.(*task.Select)
	if !ok {
		return newUnknownLabel(e.Name, e.Label)
	}

	res, hasResult := resultOf(sel.Inner)
	if !hasResult {
		// Labels are offered only once the inner task has a result.
		return newUnknownLabel(e.Name, e.Label)
	}

	var cont func(value.Value) task.Task
	for _, opt := range sel.Options {
		if opt.Label == e.Label {
			cont = opt.Cont
			break
		}
	}
	if cont == nil {
		return newUnknownLabel(e.Name, e.Label)
	}

	replaced := replaceNamed(&s.root, e.Name, cont(res))
	if !replaced {
		return newUnknownName(e.Name)
	}
	return nil
}

// applyAssign validates and applies an AssignToStore event. The write is
// the only mutation; propagation to dependent leaves across the whole tree
// happens on the next normalization via generation comparison.
func (s *Session) applyAssign(e AssignToStore) error {
	if e.Value == nil {
		return &EngineError{Code: CodeTypeMismatch, Message: "no value supplied", StoreID: e.StoreID}
	}

	current, _, err := s.reg.Read(e.StoreID)
	if err != nil {
		return assignError(e.StoreID, err)
	}
	declared := value.TypeOf(current)
	if !declared.Accepts(e.Value) {
		return &EngineError{
			Code: CodeTypeMismatch,
			Message: fmt.Sprintf("value %s does not inhabit the cell's type %s",
				value.String(e.Value), declared.String()),
			StoreID: e.StoreID,
		}
	}

	if _, err := s.reg.Write(e.StoreID, e.Value); err != nil {
		return assignError(e.StoreID, err)
	}
	return nil
}

// findNamed locates the exposed interactive node carrying a name. The right
// branch of a Choose is not searched: hidden leaves are not addressable.
func findNamed(t task.Task, name task.Name) task.Task {
	switch n := t.(type) {
	case *task.Edit:
		if n.Name == name {
			return n
		}
		return nil

	case *task.Select:
		if n.Name == name {
			return n
		}
		return findNamed(n.Inner, name)

	case *task.Pair:
		if found := findNamed(n.Left, name); found != nil {
			return found
		}
		return findNamed(n.Right, name)

	case *task.Choose:
		return findNamed(n.Left, name)

	case *task.Trans:
		return findNamed(n.Inner, name)

	case *task.Step:
		return findNamed(n.Inner, name)

	default:
		return nil
	}
}

// replaceNamed substitutes the named node with repl, rewriting only the
// addressed branch. The slot pointer lets the replacement reach the root.
func replaceNamed(slot *task.Task, name task.Name, repl task.Task) bool {
	switch n := (*slot).(type) {
	case *task.Edit:
		if n.Name == name {
			*slot = repl
			return true
		}
		return false

	case *task.Select:
		if n.Name == name {
			*slot = repl
			return true
		}
		return replaceNamed(&n.Inner, name, repl)

	case *task.Pair:
		if replaceNamed(&n.Left, name, repl) {
			return true
		}
		return replaceNamed(&n.Right, name, repl)

	case *task.Choose:
		return replaceNamed(&n.Left, name, repl)

	case *task.Trans:
		return replaceNamed(&n.Inner, name, repl)

	case *task.Step:
		return replaceNamed(&n.Inner, name, repl)

	default:
		return false
	}
}
