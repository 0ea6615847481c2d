package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/weft-lang/weft/internal/value"
)

// ID is an opaque cell identity. IDs are never reused within a registry.
type ID string

// DanglingError is returned for reads and writes against an ID the registry
// does not own. It means a tree holds a cell reference that was never
// produced by Allocate on this registry.
type DanglingError struct {
	ID ID
}

func (e *DanglingError) Error() string {
	return fmt.Sprintf("dangling store reference: %s", e.ID)
}

// IsDangling reports whether err is a DanglingError.
// Uses errors.As to handle wrapped errors.
func IsDangling(err error) bool {
	var de *DanglingError
	return errors.As(err, &de)
}

// IDGenerator produces cell IDs. Implemented by UUIDv7Generator (production)
// and testutil sequence generators (deterministic tests).
type IDGenerator interface {
	Generate() string
}

// Capability is the allocation right for one registry. It is granted exactly
// once, by NewRegistry, and cannot be forged: the zero Capability allocates
// nothing.
type Capability struct {
	reg *Registry
}

// cell is the registry-owned state of one reactive cell.
type cell struct {
	value value.Value
	gen   int64
}

// Registry owns reactive cells for one running program.
//
// Evaluation is single-threaded per step, but the registry still guards its
// map with a mutex so a rendering collaborator may read cells while the
// caller is between steps.
type Registry struct {
	mu    sync.Mutex
	ids   IDGenerator
	cells map[ID]*cell
}

// NewRegistry creates an empty registry and returns it together with its
// one-and-only allocation capability.
func NewRegistry(ids IDGenerator) (*Registry, Capability) {
	r := &Registry{
		ids:   ids,
		cells: make(map[ID]*cell),
	}
	return r, Capability{reg: r}
}

// Allocate creates a new cell holding initial at generation 0 and returns a
// reference to it. The capability must belong to this registry.
func (r *Registry) Allocate(cap Capability, initial value.Value) (*Cell, error) {
	if cap.reg != r {
		return nil, fmt.Errorf("allocation capability does not belong to this registry")
	}
	if initial == nil {
		return nil, fmt.Errorf("initial value is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := ID(r.ids.Generate())
	if _, exists := r.cells[id]; exists {
		return nil, fmt.Errorf("duplicate cell id %s", id)
	}
	r.cells[id] = &cell{value: initial, gen: 0}

	return &Cell{id: id, reg: r}, nil
}

// Read returns the current value and generation of a cell.
func (r *Registry) Read(id ID) (value.Value, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cells[id]
	if !ok {
		return nil, 0, &DanglingError{ID: id}
	}
	return c.value, c.gen, nil
}

// Write replaces a cell's value and increments its generation by exactly 1.
// The write is effective immediately: every reader sees the new value and
// generation from the next normalization pass onward.
func (r *Registry) Write(id ID, v value.Value) (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("cannot write nil value to cell %s", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cells[id]
	if !ok {
		return 0, &DanglingError{ID: id}
	}
	c.value = v
	c.gen++
	return c.gen, nil
}

// Owns reports whether the registry owns a cell with the given id.
func (r *Registry) Owns(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.cells[id]
	return ok
}

// Len returns the number of allocated cells.
// Used for testing and introspection.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.cells)
}

// Cell is a reference to a registry-owned cell. Task trees hold Cell
// references, never cell state: the registry is the single owner.
type Cell struct {
	id  ID
	reg *Registry
}

// ID returns the cell's opaque identity.
func (c *Cell) ID() ID {
	return c.id
}

// Read returns the cell's current value and generation.
func (c *Cell) Read() (value.Value, int64, error) {
	return c.reg.Read(c.id)
}

// Write replaces the cell's value, returning the new generation.
func (c *Cell) Write(v value.Value) (int64, error) {
	return c.reg.Write(c.id, v)
}

// Registry returns the owning registry.
func (c *Cell) Registry() *Registry {
	return c.reg
}
