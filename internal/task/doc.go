// Package task defines the tree data model of the language: the closed set
// of task variants (editors, pairing, choice, sequencing, store operations)
// and the closed set of editor variants.
//
// Trees are programs, not state machines: the engine rebuilds them every
// step. Nodes referencing a shared cell hold a *store.Cell reference; the
// registry owns the cell itself.
//
// Interactive leaves (Edit and Select) carry a Name. Names are assigned by
// the normalizer, are unique within one normal-form snapshot, and stay
// stable across steps for leaves that survive, so an input event can address
// exactly one leaf.
package task
