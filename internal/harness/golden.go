package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/weft-lang/weft/internal/engine"
)

// RunWithGolden executes a scenario and compares its view snapshots against
// a golden file stored in testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Snapshots use canonical view JSON and deterministic generators, so the
// golden bytes are stable across machines and runs.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) error {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return err
	}

	name := scenario.Golden
	if name == "" {
		name = scenario.Name
	}
	AssertGolden(t, name, result)
	return nil
}

// AssertGolden compares an already-obtained result against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, goldenBytes(result))
}

// goldenBytes renders a result as the golden payload: one canonical view
// snapshot per line, or the error code for expect-error scenarios.
func goldenBytes(result *Result) []byte {
	var buf bytes.Buffer
	if result.Err != nil {
		buf.WriteString("error: ")
		buf.WriteString(string(engine.CodeOf(result.Err)))
		buf.WriteByte('\n')
		return buf.Bytes()
	}
	for _, snap := range result.Snapshots {
		buf.Write(snap)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
