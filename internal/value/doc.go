// Package value defines the closed set of basic values a task program can
// carry: integers, text, booleans, the unit value, pairs, and records.
//
// The set is deliberately closed. Editors declare which kind of value they
// accept, and every external input is checked against that declaration before
// any state changes. Floats and nulls are rejected everywhere - they have no
// place in a deterministic evaluator whose views are compared byte-for-byte.
//
// The package also provides the canonical JSON encoding used for view
// snapshots and tree fingerprints: record keys sorted by UTF-16 code units
// (RFC 8785), NFC-normalized text, no HTML escaping.
package value
