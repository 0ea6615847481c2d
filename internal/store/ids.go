package store

import "github.com/google/uuid"

// UUIDv7Generator generates time-sortable UUIDv7 cell IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, making IDs
// sortable by allocation time, which is helpful when reading journals.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
