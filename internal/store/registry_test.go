package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-lang/weft/internal/testutil"
	"github.com/weft-lang/weft/internal/value"
)

func newTestRegistry() (*Registry, Capability) {
	return NewRegistry(testutil.NewSequence("cell"))
}

func TestAllocate_StartsAtGenerationZero(t *testing.T) {
	reg, capability := newTestRegistry()

	cell, err := reg.Allocate(capability, value.Int(0))
	require.NoError(t, err)

	v, gen, err := cell.Read()
	require.NoError(t, err)
	assert.Equal(t, value.Int(0), v)
	assert.Equal(t, int64(0), gen)
	assert.Equal(t, ID("cell-1"), cell.ID())
}

func TestAllocate_RejectsForeignCapability(t *testing.T) {
	reg, _ := newTestRegistry()
	_, otherCap := newTestRegistry()

	_, err := reg.Allocate(otherCap, value.Int(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capability")
}

func TestAllocate_RejectsZeroCapability(t *testing.T) {
	reg, _ := newTestRegistry()

	_, err := reg.Allocate(Capability{}, value.Int(0))
	require.Error(t, err)
}

func TestAllocate_RequiresInitialValue(t *testing.T) {
	reg, capability := newTestRegistry()

	_, err := reg.Allocate(capability, nil)
	require.Error(t, err)
}

func TestWrite_IncrementsGenerationByExactlyOne(t *testing.T) {
	reg, capability := newTestRegistry()
	cell, err := reg.Allocate(capability, value.Int(0))
	require.NoError(t, err)

	for i := int64(1); i <= 5; i++ {
		gen, err := cell.Write(value.Int(i))
		require.NoError(t, err)
		assert.Equal(t, i, gen)
	}

	v, gen, err := cell.Read()
	require.NoError(t, err)
	assert.Equal(t, value.Int(5), v)
	assert.Equal(t, int64(5), gen)
}

func TestWrite_SameValueStillMovesGeneration(t *testing.T) {
	reg, capability := newTestRegistry()
	cell, err := reg.Allocate(capability, value.Int(7))
	require.NoError(t, err)

	gen, err := cell.Write(value.Int(7))
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestWrite_NilValueRejected(t *testing.T) {
	reg, capability := newTestRegistry()
	cell, err := reg.Allocate(capability, value.Int(0))
	require.NoError(t, err)

	_, err = cell.Write(nil)
	require.Error(t, err)
}

func TestRead_UnknownIDIsDangling(t *testing.T) {
	reg, _ := newTestRegistry()

	_, _, err := reg.Read("cell-999")
	require.Error(t, err)
	assert.True(t, IsDangling(err))
}

func TestWrite_UnknownIDIsDangling(t *testing.T) {
	reg, _ := newTestRegistry()

	_, err := reg.Write("cell-999", value.Int(1))
	require.Error(t, err)
	assert.True(t, IsDangling(err))

	var de *DanglingError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, ID("cell-999"), de.ID)
}

func TestRegistry_DoesNotOwnOtherRegistrysCells(t *testing.T) {
	regA, capA := newTestRegistry()
	regB, _ := newTestRegistry()

	cell, err := regA.Allocate(capA, value.Int(0))
	require.NoError(t, err)

	assert.True(t, regA.Owns(cell.ID()))
	// Both registries use the same sequence prefix, so the ID collides by
	// construction only if B also allocated; it has not.
	assert.False(t, regB.Owns(cell.ID()))
}

func TestRegistry_Len(t *testing.T) {
	reg, capability := newTestRegistry()
	assert.Equal(t, 0, reg.Len())

	_, err := reg.Allocate(capability, value.Int(1))
	require.NoError(t, err)
	_, err = reg.Allocate(capability, value.Text("x"))
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
}

func TestIsDangling_OtherErrors(t *testing.T) {
	assert.False(t, IsDangling(nil))
	assert.False(t, IsDangling(assert.AnError))
}

func TestUUIDv7Generator_ProducesUniqueIDs(t *testing.T) {
	gen := UUIDv7Generator{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.Generate()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
