package value

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface over the closed basic-value set.
// Only Int, Text, Bool, Unit, Tuple, and Record implement it.
// There is no float variant and no null variant.
type Value interface {
	value() // Sealed - only these types implement it
}

// Int is a 64-bit integer value.
type Int int64

func (Int) value() {}

// Text is a string value.
type Text string

func (Text) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Unit is the trivial value. Assignments and option dispatch that carry no
// payload resolve to Unit.
type Unit struct{}

func (Unit) value() {}

// Tuple is the result of pairing two tasks: both components, positionally.
type Tuple struct {
	Fst Value
	Snd Value
}

func (Tuple) value() {}

// Record is a map of field names to values.
// Use SortedKeys for deterministic iteration.
type Record map[string]Value

func (Record) value() {}

// SortedKeys returns record field names in RFC 8785 canonical order
// (UTF-16 code units). Go's sort.Strings orders by UTF-8 bytes, which
// produces a DIFFERENT order for strings outside the BMP.
func (r Record) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units as required by
// RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// Equal reports deep equality of two values.
// Values of different kinds are never equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Unit:
		_, ok := b.(Unit)
		return ok
	case Tuple:
		bv, ok := b.(Tuple)
		return ok && Equal(av.Fst, bv.Fst) && Equal(av.Snd, bv.Snd)
	case Record:
		bv, ok := b.(Record)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, present := bv[k]
			if !present || !Equal(v, w) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders a value for logs and error messages.
// This is a debug rendering, not the canonical encoding.
func String(v Value) string {
	switch val := v.(type) {
	case Int:
		return fmt.Sprintf("%d", int64(val))
	case Text:
		return fmt.Sprintf("%q", string(val))
	case Bool:
		return fmt.Sprintf("%t", bool(val))
	case Unit:
		return "()"
	case Tuple:
		return fmt.Sprintf("(%s, %s)", String(val.Fst), String(val.Snd))
	case Record:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", k, String(val[k]))
		}
		sb.WriteByte('}')
		return sb.String()
	default:
		return fmt.Sprintf("<unknown %T>", v)
	}
}

// FromGo converts a decoded Go value (as produced by yaml or json decoding)
// into a Value. Floats and nulls are rejected - the basic-kind set is closed.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a basic value")
	case bool:
		return Bool(val), nil
	case string:
		return Text(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("integer out of int64 range: %d", val)
		}
		return Int(val), nil
	case float64, float32:
		return nil, fmt.Errorf("floats are not basic values: %v", val)
	case map[string]any:
		rec := make(Record, len(val))
		for k, elem := range val {
			fv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("record field %q: %w", k, err)
			}
			rec[k] = fv
		}
		return rec, nil
	case map[any]any:
		rec := make(Record, len(val))
		for k, elem := range val {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("record field name must be text, got %T", k)
			}
			fv, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("record field %q: %w", ks, err)
			}
			rec[ks] = fv
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}
