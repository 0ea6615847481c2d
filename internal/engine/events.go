package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/weft-lang/weft/internal/store"
	"github.com/weft-lang/weft/internal/task"
	"github.com/weft-lang/weft/internal/value"
)

// Event is a sealed interface over the closed set of external input events.
// Exactly one event is consumed per step.
type Event interface {
	event() // Sealed - only these types implement it

	// String renders the event for logs.
	String() string
}

// EnterValue carries a value into the Enter, Update, or Change leaf with the
// given name. The value must type-check against the leaf's declared type.
type EnterValue struct {
	Name  task.Name
	Value value.Value
}

func (EnterValue) event() {}

func (e EnterValue) String() string {
	return fmt.Sprintf("enter(%s, %s)", e.Name, value.String(e.Value))
}

// SelectOption picks one labeled continuation of the Select leaf with the
// given name.
type SelectOption struct {
	Name  task.Name
	Label string
}

func (SelectOption) event() {}

func (e SelectOption) String() string {
	return fmt.Sprintf("select(%s, %q)", e.Name, e.Label)
}

// AssignToStore writes a value into a shared cell. The write propagates to
// every Watch and Change leaf bound to the cell, across the entire tree, on
// the next normalization.
type AssignToStore struct {
	StoreID store.ID
	Value   value.Value
}

func (AssignToStore) event() {}

func (e AssignToStore) String() string {
	return fmt.Sprintf("assign(%s, %s)", e.StoreID, value.String(e.Value))
}

// MarshalEvent renders an event as canonical-friendly JSON for journals.
func MarshalEvent(ev Event) ([]byte, error) {
	var buf bytes.Buffer
	switch e := ev.(type) {
	case EnterValue:
		canonical, err := value.MarshalCanonical(e.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal enter event: %w", err)
		}
		name, _ := json.Marshal(string(e.Name))
		fmt.Fprintf(&buf, `{"kind":"enter","name":%s,"value":%s}`, name, canonical)

	case SelectOption:
		name, _ := json.Marshal(string(e.Name))
		label, _ := json.Marshal(e.Label)
		fmt.Fprintf(&buf, `{"kind":"select","name":%s,"label":%s}`, name, label)

	case AssignToStore:
		canonical, err := value.MarshalCanonical(e.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal assign event: %w", err)
		}
		id, _ := json.Marshal(string(e.StoreID))
		fmt.Fprintf(&buf, `{"kind":"assign","store":%s,"value":%s}`, id, canonical)

	default:
		return nil, fmt.Errorf("unknown event variant %T", ev)
	}
	return buf.Bytes(), nil
}
