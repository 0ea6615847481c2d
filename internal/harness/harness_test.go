package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-lang/weft/internal/engine"
	"github.com/weft-lang/weft/internal/store"
	"github.com/weft-lang/weft/internal/testutil"
)

func intPtr(n int) *int { return &n }

func genPtr(n int64) *int64 { return &n }

func TestRun_EntryFlow(t *testing.T) {
	scenario := &Scenario{
		Name:        "entry_flow",
		Description: "fill the single editor",
		Program:     "entry",
		Events: []EventSpec{
			{Kind: "enter", Leaf: intPtr(0), Value: 5},
		},
		Assertions: []Assertion{
			{Type: AssertViewShows, Leaf: intPtr(0), Kind: "update", Value: 5},
			{Type: AssertLeafCount, Count: intPtr(1)},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Len(t, result.Snapshots, 2)
	assert.Equal(t, int64(1), result.Session.Steps())
}

func TestRun_DeterministicSnapshots(t *testing.T) {
	scenario := &Scenario{
		Name:        "determinism",
		Description: "identical runs produce identical bytes",
		Program:     "shared-cell",
		Events: []EventSpec{
			{Kind: "assign", Store: intPtr(0), Value: 5},
		},
	}

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	require.Len(t, first.Snapshots, len(second.Snapshots))
	for i := range first.Snapshots {
		assert.Equal(t, string(first.Snapshots[i]), string(second.Snapshots[i]))
	}
}

func TestRun_SharedCellPropagation(t *testing.T) {
	scenario := &Scenario{
		Name:        "propagation",
		Description: "a store write reaches every dependent leaf",
		Program:     "shared-cell",
		Events: []EventSpec{
			{Kind: "assign", Store: intPtr(0), Value: 5},
		},
		Assertions: []Assertion{
			{Type: AssertViewShows, Leaf: intPtr(0), Kind: "watch", Value: 5, Store: intPtr(0), Generation: genPtr(1)},
			{Type: AssertViewShows, Leaf: intPtr(1), Kind: "change", Value: 5, Store: intPtr(0), Generation: genPtr(1)},
			{Type: AssertGeneration, Store: intPtr(0), Generation: genPtr(1)},
		},
	}

	_, err := Run(scenario)
	require.NoError(t, err)
}

func TestRun_ExpectErrorScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "spin_guard",
		Description: "endless step chain is detected",
		Program:     "spin",
		ExpectError: "NON_PRODUCTIVE_RECURSION",
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Error(t, result.Err)
	assert.True(t, engine.IsNonProductive(result.Err))
	assert.Empty(t, result.Snapshots)
}

func TestRun_ExpectErrorMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_code",
		Description: "a healthy program cannot satisfy expect_error",
		Program:     "entry",
		ExpectError: "NON_PRODUCTIVE_RECURSION",
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normalization succeeded")
}

func TestRun_EventExpectError(t *testing.T) {
	scenario := &Scenario{
		Name:        "rejections",
		Description: "rejected events leave the view unchanged",
		Program:     "entry",
		Events: []EventSpec{
			{Kind: "enter", Leaf: intPtr(0), Value: "nope", ExpectError: "TYPE_MISMATCH"},
			{Kind: "enter", Leaf: intPtr(9), Value: 1, ExpectError: "UNKNOWN_NAME"},
			{Kind: "enter", Leaf: intPtr(0), Value: 2},
		},
		Assertions: []Assertion{
			{Type: AssertViewShows, Leaf: intPtr(0), Kind: "update", Value: 2},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	// Only the initial view and the accepted event produce snapshots.
	assert.Len(t, result.Snapshots, 2)
	assert.Equal(t, int64(1), result.Session.Steps())
}

func TestRun_EventExpectErrorNotRaisedFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "accepted_anyway",
		Description: "a valid event cannot satisfy expect_error",
		Program:     "entry",
		Events: []EventSpec{
			{Kind: "enter", Leaf: intPtr(0), Value: 5, ExpectError: "TYPE_MISMATCH"},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "was accepted")
}

func TestRun_DanglingStoreByIndex(t *testing.T) {
	scenario := &Scenario{
		Name:        "dangling",
		Description: "an out-of-range store index resolves to a dangling reference",
		Program:     "shared-cell",
		Events: []EventSpec{
			{Kind: "assign", Store: intPtr(5), Value: 1, ExpectError: "DANGLING_STORE"},
		},
		Assertions: []Assertion{
			{Type: AssertGeneration, Store: intPtr(0), Generation: genPtr(0)},
		},
	}

	_, err := Run(scenario)
	require.NoError(t, err)
}

func TestRun_FailedAssertionSurfaces(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_value",
		Description: "assertion mismatch fails the run",
		Program:     "entry",
		Events: []EventSpec{
			{Kind: "enter", Leaf: intPtr(0), Value: 5},
		},
		Assertions: []Assertion{
			{Type: AssertViewShows, Leaf: intPtr(0), Value: 6},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leaf 0 shows 5, want 6")
}

func TestRun_RecorderSeesEveryAppliedEvent(t *testing.T) {
	scenario := &Scenario{
		Name:        "recorded",
		Description: "the recorder observes applied events only",
		Program:     "entry",
		Events: []EventSpec{
			{Kind: "enter", Leaf: intPtr(0), Value: "bad", ExpectError: "TYPE_MISMATCH"},
			{Kind: "enter", Leaf: intPtr(0), Value: 1},
			{Kind: "enter", Leaf: intPtr(0), Value: 2},
		},
	}

	var seqs []int64
	_, err := Run(scenario, WithRecorder(func(seq int64, ev engine.Event, view *engine.View) error {
		seqs = append(seqs, seq)
		require.NotNil(t, view)
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, seqs)
}

func TestBuildFixture_UnknownName(t *testing.T) {
	reg, capability := store.NewRegistry(testutil.NewSequence("cell"))
	_, _, err := BuildFixture("no-such-program", reg, capability)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fixture program")
}

func TestFixtureNames_SortedAndComplete(t *testing.T) {
	names := FixtureNames()
	assert.Equal(t, []string{
		"entry",
		"entry-pair",
		"labeled-choice",
		"positive-entry",
		"repeat-entry",
		"shared-cell",
		"spin",
	}, names)
}
