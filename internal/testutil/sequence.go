// Package testutil provides deterministic helpers shared by tests and the
// scenario harness.
package testutil

import (
	"fmt"
	"sync"
)

// Sequence generates "prefix-1", "prefix-2", ... tokens.
//
// It stands in for the UUIDv7 generators wherever runs must be
// byte-identical: leaf names and cell IDs become stable, so views can be
// compared against golden files.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequence creates a generator with the given token prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Generate returns the next token in the sequence.
//
// Implements engine.NameGenerator and store.IDGenerator.
func (s *Sequence) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// Count returns how many tokens have been generated.
// Used for testing.
func (s *Sequence) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// Reset restarts the sequence. After Reset the next token is "prefix-1".
func (s *Sequence) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = 0
}
