package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/weft-lang/weft/internal/task"
	"github.com/weft-lang/weft/internal/value"
)

// Leaf describes one addressable interaction point of a normal-form tree.
type Leaf struct {
	// Name is the leaf's stable identity token.
	Name task.Name

	// Kind is the editor kind, or "select" for option leaves.
	Kind string

	// Type is the declared value type of an editor leaf.
	Type string

	// Value is the leaf's current value; nil for an empty Enter and for a
	// Select whose inner task has no result yet.
	Value value.Value

	// Labels are the currently offered option labels of a Select.
	Labels []string

	// StoreID identifies the bound cell of a Watch or Change leaf.
	StoreID string

	// Gen is the cell generation the leaf last observed.
	Gen int64
}

// View is the observable interaction surface of a normal-form tree: every
// addressable leaf in exposure order plus, if the whole tree reduced to a
// pure value, the terminal result.
type View struct {
	Leaves   []Leaf
	Terminal value.Value
}

// Lookup finds a leaf by name.
func (v *View) Lookup(name task.Name) (*Leaf, bool) {
	for i := range v.Leaves {
		if v.Leaves[i].Name == name {
			return &v.Leaves[i], true
		}
	}
	return nil, false
}

// Resolved reports whether the tree behind this view is terminal.
func (v *View) Resolved() bool {
	return v.Terminal != nil
}

// assignNames walks the exposed structure of a normal-form tree and gives a
// fresh name to every interactive leaf that does not have one yet. Leaves
// surviving from earlier steps keep their names; the right branch of a
// Choose is not exposed and stays unnamed until choice resolution exposes
// it.
func assignNames(t task.Task, gen NameGenerator) {
	switch n := t.(type) {
	case *task.Edit:
		if !n.Name.Named() {
			n.Name = freshName(gen)
		}

	case *task.Select:
		if !n.Name.Named() {
			n.Name = freshName(gen)
		}
		assignNames(n.Inner, gen)

	case *task.Pair:
		assignNames(n.Left, gen)
		assignNames(n.Right, gen)

	case *task.Choose:
		assignNames(n.Left, gen)

	case *task.Trans:
		assignNames(n.Inner, gen)

	case *task.Step:
		assignNames(n.Inner, gen)

	default:
		// Lift, Fail, Assert, Assign expose nothing.
	}
}

// buildView collects the exposed leaves of a normal-form tree.
func buildView(t task.Task) *View {
	v := &View{}
	collectLeaves(t, v)
	if lift, ok := t.(*task.Lift); ok {
		v.Terminal = lift.Value
	}
	return v
}

func collectLeaves(t task.Task, v *View) {
	switch n := t.(type) {
	case *task.Edit:
		v.Leaves = append(v.Leaves, editLeaf(n))

	case *task.Select:
		collectLeaves(n.Inner, v)
		leaf := Leaf{Name: n.Name, Kind: "select"}
		if res, ok := resultOf(n.Inner); ok {
			leaf.Value = res
			for _, opt := range n.Options {
				leaf.Labels = append(leaf.Labels, opt.Label)
			}
		}
		v.Leaves = append(v.Leaves, leaf)

	case *task.Pair:
		collectLeaves(n.Left, v)
		collectLeaves(n.Right, v)

	case *task.Choose:
		// Left bias: the retained right branch contributes no visible leaf.
		collectLeaves(n.Left, v)

	case *task.Trans:
		collectLeaves(n.Inner, v)

	case *task.Step:
		collectLeaves(n.Inner, v)

	default:
		// Lift, Fail, Assert, Assign expose nothing.
	}
}

func editLeaf(n *task.Edit) Leaf {
	leaf := Leaf{
		Name: n.Name,
		Kind: task.EditorKind(n.Editor),
		Type: task.EditorType(n.Editor).String(),
	}
	switch ed := n.Editor.(type) {
	case *task.Enter:
		// No current value.
	case *task.Update:
		leaf.Value = ed.Value
	case *task.View:
		leaf.Value = ed.Value
	case *task.Watch:
		leaf.Value = ed.Value
		leaf.StoreID = string(ed.Cell.ID())
		leaf.Gen = ed.Gen
	case *task.Change:
		leaf.Value = ed.Value
		leaf.StoreID = string(ed.Cell.ID())
		leaf.Gen = ed.Gen
	}
	return leaf
}

// MarshalJSON renders the view with a fixed key order and canonical value
// encoding, so snapshots compare byte-for-byte across runs.
func (v *View) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"leaves":[`)
	for i := range v.Leaves {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeLeafJSON(&buf, &v.Leaves[i]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	if v.Terminal != nil {
		buf.WriteString(`,"terminal":`)
		canonical, err := value.MarshalCanonical(v.Terminal)
		if err != nil {
			return nil, fmt.Errorf("terminal value: %w", err)
		}
		buf.Write(canonical)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeLeafJSON(buf *bytes.Buffer, l *Leaf) error {
	buf.WriteString(`{"name":`)
	name, err := json.Marshal(string(l.Name))
	if err != nil {
		return err
	}
	buf.Write(name)

	fmt.Fprintf(buf, `,"kind":%q`, l.Kind)
	if l.Type != "" {
		fmt.Fprintf(buf, `,"type":%q`, l.Type)
	}
	if l.Value != nil {
		canonical, err := value.MarshalCanonical(l.Value)
		if err != nil {
			return fmt.Errorf("leaf %s: %w", l.Name, err)
		}
		buf.WriteString(`,"value":`)
		buf.Write(canonical)
	}
	if l.Labels != nil {
		labels, err := json.Marshal(l.Labels)
		if err != nil {
			return err
		}
		buf.WriteString(`,"labels":`)
		buf.Write(labels)
	}
	if l.StoreID != "" {
		fmt.Fprintf(buf, `,"store":%q,"generation":%d`, l.StoreID, l.Gen)
	}
	buf.WriteByte('}')
	return nil
}
