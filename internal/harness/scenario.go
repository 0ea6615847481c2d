package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one scripted run against a fixture program: the events
// to apply in order and the assertions on what the tree exposes afterwards.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden snapshots default to
	// this name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program names a fixture from the catalog.
	Program string `yaml:"program"`

	// ExpectError, when set, is the engine error code the very first
	// normalization must fail with. Scenarios probing the
	// non-productive-recursion guard use this; no events or assertions run.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Events are applied in order, re-normalizing after each one.
	Events []EventSpec `yaml:"events,omitempty"`

	// Assertions validate the final view and the fixture's cells.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// Golden overrides the golden snapshot name (defaults to Name).
	Golden string `yaml:"golden,omitempty"`
}

// EventSpec is one scripted input event. Leaves are addressed by index into
// the current view, stores by index into the fixture's allocated cells;
// the runner resolves both to the opaque identities the engine expects.
type EventSpec struct {
	// Kind is "enter", "select", or "assign".
	Kind string `yaml:"kind"`

	// Leaf indexes the current view's leaves (enter, select).
	Leaf *int `yaml:"leaf,omitempty"`

	// Store indexes the fixture's cells (assign).
	Store *int `yaml:"store,omitempty"`

	// Label is the option label to pick (select).
	Label string `yaml:"label,omitempty"`

	// Value is the entered or assigned value (enter, assign).
	Value any `yaml:"value,omitempty"`

	// ExpectError, when set, is the engine error code Apply must return.
	// The step is then expected to leave the view unchanged.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the final view or a cell.
type Assertion struct {
	// Type specifies the assertion type:
	// - "view_shows": leaf at index has the given kind/value/labels
	// - "terminal": the tree resolved to the given value
	// - "generation": the cell at index is at the given generation
	// - "leaf_count": the view has exactly Count leaves
	Type string `yaml:"type"`

	// Leaf indexes the final view's leaves (view_shows).
	Leaf *int `yaml:"leaf,omitempty"`

	// Kind is the expected leaf kind (view_shows, optional).
	Kind string `yaml:"kind,omitempty"`

	// Value is the expected value (view_shows, terminal).
	Value any `yaml:"value,omitempty"`

	// Labels are the expected option labels (view_shows, optional).
	Labels []string `yaml:"labels,omitempty"`

	// Store indexes the fixture's cells (generation).
	Store *int `yaml:"store,omitempty"`

	// Generation is the expected cell generation (generation; also
	// checked on a view_shows leaf when set).
	Generation *int64 `yaml:"generation,omitempty"`

	// Count is the expected number of leaves (leaf_count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertViewShows  = "view_shows"
	AssertTerminal   = "terminal"
	AssertGeneration = "generation"
	AssertLeafCount  = "leaf_count"
)

// LoadScenario reads, schema-validates, and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario validates and parses scenario YAML.
// The bytes are checked against the embedded CUE schema first, then decoded
// strictly (unknown fields are typos and get rejected).
func ParseScenario(data []byte) (*Scenario, error) {
	if err := ValidateScenarioBytes(data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks the cross-field requirements the CUE schema
// cannot express per event and assertion kind.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Program == "" {
		return fmt.Errorf("program is required")
	}

	if s.ExpectError != "" {
		if len(s.Events) > 0 || len(s.Assertions) > 0 {
			return fmt.Errorf("expect_error scenarios take no events or assertions")
		}
		return nil
	}

	for i, ev := range s.Events {
		if err := validateEvent(i, &ev); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateEvent(index int, ev *EventSpec) error {
	switch ev.Kind {
	case "enter":
		if ev.Leaf == nil {
			return fmt.Errorf("events[%d]: leaf is required for enter", index)
		}
		if ev.Value == nil {
			return fmt.Errorf("events[%d]: value is required for enter", index)
		}
	case "select":
		if ev.Leaf == nil {
			return fmt.Errorf("events[%d]: leaf is required for select", index)
		}
		if ev.Label == "" {
			return fmt.Errorf("events[%d]: label is required for select", index)
		}
	case "assign":
		if ev.Store == nil {
			return fmt.Errorf("events[%d]: store is required for assign", index)
		}
		if ev.Value == nil {
			return fmt.Errorf("events[%d]: value is required for assign", index)
		}
	default:
		return fmt.Errorf("events[%d]: unknown event kind %q", index, ev.Kind)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertViewShows:
		if a.Leaf == nil {
			return fmt.Errorf("assertions[%d]: leaf is required for view_shows", index)
		}
	case AssertTerminal:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for terminal", index)
		}
	case AssertGeneration:
		if a.Store == nil {
			return fmt.Errorf("assertions[%d]: store is required for generation", index)
		}
		if a.Generation == nil {
			return fmt.Errorf("assertions[%d]: generation is required for generation", index)
		}
	case AssertLeafCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for leaf_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
