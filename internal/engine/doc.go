// Package engine evaluates task trees.
//
// The engine has two halves that alternate in the caller's loop:
//
//   - Normalize reduces a tree to its normal form: pure redexes are
//     eliminated, failed choices resolved, stale reactive leaves re-derived
//     from their cells, and every surviving interactive leaf is given a
//     stable name. The result is an observable View.
//
//   - Apply consumes one addressed external input event and rewrites exactly
//     one leaf's subtree - except for store writes, whose effect reaches
//     every dependent leaf in the whole tree on the next Normalize.
//
// Evaluation is single-threaded and step-driven. Normalization is a
// confluent, terminating rewrite system; the one divergence a program can
// express (a self-recursive step chain with no interaction point) is
// detected by the progress guard and reported as NonProductiveRecursion,
// never looped on.
//
// All failures are explicit EngineError results. Validation precedes
// mutation: a rejected event leaves both the tree and the cell registry
// exactly as they were.
package engine
