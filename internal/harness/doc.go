// Package harness runs scripted scenarios against the fixture programs.
//
// A scenario names a fixture from the catalog, applies a sequence of input
// events, and asserts on the view the tree exposes afterwards.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	program: shared-cell
//	events:
//	  - kind: enter
//	    leaf: 0
//	    value: 5
//	  - kind: select
//	    leaf: 1
//	    label: repeat
//	  - kind: assign
//	    store: 0
//	    value: 7
//	assertions:
//	  - type: view_shows
//	    leaf: 0
//	    kind: watch
//	    value: 7
//	  - type: terminal
//	    value: 5
//	  - type: generation
//	    store: 0
//	    generation: 2
//	  - type: leaf_count
//	    count: 2
//
// Leaves are addressed by index into the current view and stores by index
// into the fixture's allocated cells, so scenario files never contain the
// opaque identity tokens the engine generates.
//
// A scenario may instead set expect_error to the error code its fixture's
// very first normalization must fail with; such scenarios take no events or
// assertions. Individual events carry their own expect_error when they must
// be rejected, and a rejected event must leave the view unchanged.
//
// # Deterministic Runs
//
// Every run uses sequence generators for leaf names ("leaf-1", "leaf-2", ...)
// and cell IDs ("cell-1", ...), so view snapshots are byte-identical across
// runs and machines. RunWithGolden compares the snapshots against golden
// files under testdata/golden; regenerate with:
//
//	go test ./internal/harness -update
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/shared_cell.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
package harness
