// Package store implements the reactive cell registry.
//
// A Registry owns every shared cell a running program can observe. Cells are
// created through Allocate, which requires the Capability handed out exactly
// once by NewRegistry - allocation is never an ambient right. Each cell
// carries a value and a generation counter; every write replaces the value
// and bumps the generation by exactly one. Watch and Change editors compare
// their cached generation against the cell's to decide whether they are
// stale, which is what drives cross-branch propagation in the engine.
//
// The registry is in-memory only. Task trees are rebuilt every step, but
// cells live for the whole running program.
package store
