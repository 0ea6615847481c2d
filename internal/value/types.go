package value

import (
	"fmt"
	"strings"
)

// Type is a sealed interface over the closed set of type descriptors.
// Every Type mirrors exactly one Value kind. Editors declare a Type; inputs
// are checked against it with Accepts before any mutation happens.
type Type interface {
	typeDesc() // Sealed - only these types implement it

	// Accepts reports whether v inhabits this type.
	Accepts(v Value) bool

	// String renders the type for error messages and views.
	String() string
}

// IntType accepts Int values.
type IntType struct{}

func (IntType) typeDesc() {}

func (IntType) Accepts(v Value) bool {
	_, ok := v.(Int)
	return ok
}

func (IntType) String() string { return "int" }

// TextType accepts Text values.
type TextType struct{}

func (TextType) typeDesc() {}

func (TextType) Accepts(v Value) bool {
	_, ok := v.(Text)
	return ok
}

func (TextType) String() string { return "text" }

// BoolType accepts Bool values.
type BoolType struct{}

func (BoolType) typeDesc() {}

func (BoolType) Accepts(v Value) bool {
	_, ok := v.(Bool)
	return ok
}

func (BoolType) String() string { return "bool" }

// UnitType accepts only Unit.
type UnitType struct{}

func (UnitType) typeDesc() {}

func (UnitType) Accepts(v Value) bool {
	_, ok := v.(Unit)
	return ok
}

func (UnitType) String() string { return "unit" }

// TupleType accepts Tuples whose components inhabit the component types.
type TupleType struct {
	Fst Type
	Snd Type
}

func (TupleType) typeDesc() {}

func (t TupleType) Accepts(v Value) bool {
	tv, ok := v.(Tuple)
	return ok && t.Fst.Accepts(tv.Fst) && t.Snd.Accepts(tv.Snd)
}

func (t TupleType) String() string {
	return fmt.Sprintf("(%s, %s)", t.Fst.String(), t.Snd.String())
}

// RecordType accepts Records with exactly the declared fields.
type RecordType map[string]Type

func (RecordType) typeDesc() {}

func (t RecordType) Accepts(v Value) bool {
	rec, ok := v.(Record)
	if !ok || len(rec) != len(t) {
		return false
	}
	for k, ft := range t {
		fv, present := rec[k]
		if !present || !ft.Accepts(fv) {
			return false
		}
	}
	return true
}

func (t RecordType) String() string {
	rec := make(Record, len(t))
	for k := range t {
		rec[k] = Unit{}
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range rec.SortedKeys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", k, t[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// TypeOf returns the type descriptor inhabited by v.
func TypeOf(v Value) Type {
	switch val := v.(type) {
	case Int:
		return IntType{}
	case Text:
		return TextType{}
	case Bool:
		return BoolType{}
	case Unit:
		return UnitType{}
	case Tuple:
		return TupleType{Fst: TypeOf(val.Fst), Snd: TypeOf(val.Snd)}
	case Record:
		rt := make(RecordType, len(val))
		for k, fv := range val {
			rt[k] = TypeOf(fv)
		}
		return rt
	default:
		// Unreachable for a sealed Value; kept honest by tests.
		panic(fmt.Sprintf("value: unknown variant %T", v))
	}
}

// ParseType resolves a type name as written in scenario files.
// Only the scalar kinds are nameable externally.
func ParseType(name string) (Type, error) {
	switch name {
	case "int":
		return IntType{}, nil
	case "text":
		return TextType{}, nil
	case "bool":
		return BoolType{}, nil
	case "unit":
		return UnitType{}, nil
	default:
		return nil, fmt.Errorf("unknown type name %q", name)
	}
}
