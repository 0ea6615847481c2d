package harness

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// scenarioSchema is the CUE schema every scenario file must satisfy before
// it is decoded. CUE catches structural mistakes (wrong kinds, negative
// indexes, misspelled enum values) with positions the strict YAML decoder
// cannot give.
const scenarioSchema = `
#Scenario: {
	name:          string & != ""
	description:   string & != ""
	program:       string & != ""
	expect_error?: string & != ""
	events?: [...#Event]
	assertions?: [...#Assertion]
	golden?: string & != ""
}

#Event: {
	kind:          "enter" | "select" | "assign"
	leaf?:         int & >=0
	store?:        int & >=0
	label?:        string & != ""
	value?:        _
	expect_error?: string & != ""
}

#Assertion: {
	type:        "view_shows" | "terminal" | "generation" | "leaf_count"
	leaf?:       int & >=0
	kind?:       "enter" | "update" | "view" | "watch" | "change" | "select"
	value?:      _
	labels?: [...string]
	store?:      int & >=0
	generation?: int & >=0
	count?:      int & >=0
}
`

// ValidateScenarioBytes checks scenario YAML against the embedded schema.
func ValidateScenarioBytes(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(scenarioSchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("internal schema error: %w", err)
	}

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema violation: %w", err)
	}
	return nil
}
