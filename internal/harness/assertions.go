package harness

import (
	"fmt"
	"slices"

	"github.com/weft-lang/weft/internal/engine"
	"github.com/weft-lang/weft/internal/value"
)

// CheckAssertions evaluates every assertion of a completed run against the
// final view and the fixture's cells.
func CheckAssertions(result *Result) error {
	view := result.Session.View()
	for i := range result.Scenario.Assertions {
		a := &result.Scenario.Assertions[i]
		if err := checkAssertion(a, view, result); err != nil {
			return fmt.Errorf("assertions[%d] (%s): %w", i, a.Type, err)
		}
	}
	return nil
}

func checkAssertion(a *Assertion, view *engine.View, result *Result) error {
	switch a.Type {
	case AssertViewShows:
		return checkViewShows(a, view, result)

	case AssertTerminal:
		want, err := value.FromGo(a.Value)
		if err != nil {
			return fmt.Errorf("expected value: %w", err)
		}
		if view.Terminal == nil {
			return fmt.Errorf("tree has not resolved to a value")
		}
		if !value.Equal(view.Terminal, want) {
			return fmt.Errorf("terminal value is %s, want %s",
				value.String(view.Terminal), value.String(want))
		}
		return nil

	case AssertGeneration:
		if *a.Store >= len(result.Cells) {
			return fmt.Errorf("store index %d out of range (%d cells)", *a.Store, len(result.Cells))
		}
		_, gen, err := result.Cells[*a.Store].Read()
		if err != nil {
			return fmt.Errorf("read cell %d: %w", *a.Store, err)
		}
		if gen != *a.Generation {
			return fmt.Errorf("cell %d is at generation %d, want %d", *a.Store, gen, *a.Generation)
		}
		return nil

	case AssertLeafCount:
		if len(view.Leaves) != *a.Count {
			return fmt.Errorf("view has %d leaves, want %d", len(view.Leaves), *a.Count)
		}
		return nil

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func checkViewShows(a *Assertion, view *engine.View, result *Result) error {
	if *a.Leaf >= len(view.Leaves) {
		return fmt.Errorf("leaf index %d out of range (%d leaves)", *a.Leaf, len(view.Leaves))
	}
	leaf := &view.Leaves[*a.Leaf]

	if a.Kind != "" && leaf.Kind != a.Kind {
		return fmt.Errorf("leaf %d is a %s leaf, want %s", *a.Leaf, leaf.Kind, a.Kind)
	}

	if a.Value != nil {
		want, err := value.FromGo(a.Value)
		if err != nil {
			return fmt.Errorf("expected value: %w", err)
		}
		if leaf.Value == nil {
			return fmt.Errorf("leaf %d has no value, want %s", *a.Leaf, value.String(want))
		}
		if !value.Equal(leaf.Value, want) {
			return fmt.Errorf("leaf %d shows %s, want %s",
				*a.Leaf, value.String(leaf.Value), value.String(want))
		}
	}

	if a.Labels != nil && !slices.Equal(leaf.Labels, a.Labels) {
		return fmt.Errorf("leaf %d offers labels %v, want %v", *a.Leaf, leaf.Labels, a.Labels)
	}

	if a.Store != nil {
		if *a.Store >= len(result.Cells) {
			return fmt.Errorf("store index %d out of range (%d cells)", *a.Store, len(result.Cells))
		}
		wantID := string(result.Cells[*a.Store].ID())
		if leaf.StoreID != wantID {
			return fmt.Errorf("leaf %d is bound to store %s, want %s", *a.Leaf, leaf.StoreID, wantID)
		}
	}

	if a.Generation != nil && leaf.Gen != *a.Generation {
		return fmt.Errorf("leaf %d observed generation %d, want %d", *a.Leaf, leaf.Gen, *a.Generation)
	}

	return nil
}
