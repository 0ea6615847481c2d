package harness

import (
	"fmt"
	"sort"

	"github.com/weft-lang/weft/internal/combinator"
	"github.com/weft-lang/weft/internal/store"
	"github.com/weft-lang/weft/internal/task"
	"github.com/weft-lang/weft/internal/value"
)

// Fixture is a named probe program scenarios can run against. Fixtures
// exercise the engine's composition surface; they are deliberately
// abstract, not demo applications.
type Fixture struct {
	Name        string
	Description string

	// Build constructs the program, allocating any cells it needs.
	// The returned cells are addressable from scenarios by index.
	Build func(reg *store.Registry, cap store.Capability) (task.Task, []*store.Cell, error)
}

var catalog = map[string]Fixture{
	"entry": {
		Name:        "entry",
		Description: "a single empty integer editor",
		Build: func(reg *store.Registry, cap store.Capability) (task.Task, []*store.Cell, error) {
			return &task.Edit{Editor: &task.Enter{Type: value.IntType{}}}, nil, nil
		},
	},

	"entry-pair": {
		Name:        "entry-pair",
		Description: "two independent editors progressing in parallel",
		Build: func(reg *store.Registry, cap store.Capability) (task.Task, []*store.Cell, error) {
			return combinator.Parallel([]task.Task{
				&task.Edit{Editor: &task.Enter{Type: value.IntType{}}},
				&task.Edit{Editor: &task.Enter{Type: value.TextType{}}},
			}), nil, nil
		},
	},

	"labeled-choice": {
		Name:        "labeled-choice",
		Description: "a failed alternative resolving transparently to a selection",
		Build: func(reg *store.Registry, cap store.Capability) (task.Task, []*store.Cell, error) {
			return combinator.ChooseOf(
				&task.Fail{},
				combinator.Pick(
					combinator.Opt("left", &task.Lift{Value: value.Int(1)}),
					combinator.Opt("right", &task.Lift{Value: value.Int(2)}),
				),
			), nil, nil
		},
	},

	"shared-cell": {
		Name:        "shared-cell",
		Description: "a watch and a change bound to the same cell in independent branches",
		Build: func(reg *store.Registry, cap store.Capability) (task.Task, []*store.Cell, error) {
			cell, err := reg.Allocate(cap, value.Int(0))
			if err != nil {
				return nil, nil, err
			}
			watch, err := task.NewWatch(cell)
			if err != nil {
				return nil, nil, err
			}
			change, err := task.NewChange(cell)
			if err != nil {
				return nil, nil, err
			}
			return &task.Pair{Left: watch, Right: change}, []*store.Cell{cell}, nil
		},
	},

	"positive-entry": {
		Name:        "positive-entry",
		Description: "an editor guarded by a continuation that rejects non-positive values",
		Build: func(reg *store.Registry, cap store.Capability) (task.Task, []*store.Cell, error) {
			return &task.Step{
				Inner: &task.Edit{Editor: &task.Enter{Type: value.IntType{}}},
				Cont: func(v value.Value) task.Task {
					n, ok := v.(value.Int)
					if !ok || n <= 0 {
						return &task.Fail{}
					}
					return &task.Lift{Value: n}
				},
			}, nil, nil
		},
	},

	"repeat-entry": {
		Name:        "repeat-entry",
		Description: "a user-routed loop around an integer editor",
		Build: func(reg *store.Registry, cap store.Capability) (task.Task, []*store.Cell, error) {
			return combinator.Repeat(
				&task.Edit{Editor: &task.Enter{Type: value.IntType{}}},
			), nil, nil
		},
	},

	"spin": {
		Name:        "spin",
		Description: "an endless step chain with no interaction point",
		Build: func(reg *store.Registry, cap store.Capability) (task.Task, []*store.Cell, error) {
			return combinator.Forever(&task.Lift{Value: value.Int(0)}), nil, nil
		},
	},
}

// LookupFixture finds a fixture by name.
func LookupFixture(name string) (Fixture, bool) {
	f, ok := catalog[name]
	return f, ok
}

// FixtureNames lists the catalog in sorted order.
func FixtureNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildFixture constructs a fixture program with a fresh registry.
func BuildFixture(name string, reg *store.Registry, cap store.Capability) (task.Task, []*store.Cell, error) {
	f, ok := LookupFixture(name)
	if !ok {
		return nil, nil, fmt.Errorf("unknown fixture program %q (have: %v)", name, FixtureNames())
	}
	return f.Build(reg, cap)
}
