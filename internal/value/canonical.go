package value

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON for a value.
// This is the ONLY serialization used for fingerprints and golden snapshots.
//
// Key differences from standard json.Marshal:
//  1. Record keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Text is NFC normalized
//
// Unit encodes as the empty array, Tuple as a two-element array.
func MarshalCanonical(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("nil value cannot be canonically encoded")
	case Int:
		return []byte(fmt.Sprintf("%d", int64(val))), nil
	case Text:
		return marshalCanonicalString(string(val))
	case Bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case Unit:
		return []byte("[]"), nil
	case Tuple:
		var buf bytes.Buffer
		buf.WriteByte('[')
		fst, err := MarshalCanonical(val.Fst)
		if err != nil {
			return nil, fmt.Errorf("tuple fst: %w", err)
		}
		buf.Write(fst)
		buf.WriteByte(',')
		snd, err := MarshalCanonical(val.Snd)
		if err != nil {
			return nil, fmt.Errorf("tuple snd: %w", err)
		}
		buf.Write(snd)
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case Record:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := marshalCanonicalString(k)
			if err != nil {
				return nil, fmt.Errorf("record key %q: %w", k, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			fv, err := MarshalCanonical(val[k])
			if err != nil {
				return nil, fmt.Errorf("record field %q: %w", k, err)
			}
			buf.Write(fv)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported value variant %T", v)
	}
}

// marshalCanonicalString encodes a string with NFC normalization and
// without HTML escaping.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}
	// json.Encoder appends a newline; strip it.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
