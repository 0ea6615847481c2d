package engine

import (
	"github.com/google/uuid"

	"github.com/weft-lang/weft/internal/task"
)

// NameGenerator produces the stable identity tokens assigned to interactive
// leaves during normalization. Implemented by UUIDv7Generator (production)
// and testutil.Sequence (deterministic tests).
type NameGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 leaf names.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// freshName draws the next leaf name from the generator.
func freshName(gen NameGenerator) task.Name {
	return task.Name(gen.Generate())
}
