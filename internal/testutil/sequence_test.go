package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence_Generate(t *testing.T) {
	seq := NewSequence("leaf")
	assert.Equal(t, "leaf-1", seq.Generate())
	assert.Equal(t, "leaf-2", seq.Generate())
	assert.Equal(t, "leaf-3", seq.Generate())
	assert.Equal(t, 3, seq.Count())
}

func TestSequence_Reset(t *testing.T) {
	seq := NewSequence("cell")
	seq.Generate()
	seq.Generate()
	seq.Reset()
	assert.Equal(t, "cell-1", seq.Generate())
}

func TestSequence_ConcurrentGenerate(t *testing.T) {
	seq := NewSequence("x")
	var wg sync.WaitGroup
	tokens := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens <- seq.Generate()
		}()
	}
	wg.Wait()
	close(tokens)

	seen := make(map[string]bool)
	for tok := range tokens {
		assert.False(t, seen[tok], "duplicate token %s", tok)
		seen[tok] = true
	}
	assert.Equal(t, 100, seq.Count())
}
