package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/weft-lang/weft/internal/engine"
	"github.com/weft-lang/weft/internal/store"
	"github.com/weft-lang/weft/internal/task"
	"github.com/weft-lang/weft/internal/testutil"
	"github.com/weft-lang/weft/internal/value"
)

// Recorder observes each applied event together with the view the tree
// exposed afterwards. The run command uses it to feed the step journal.
type Recorder func(seq int64, event engine.Event, view *engine.View) error

// Result is the outcome of one scenario run.
type Result struct {
	Scenario *Scenario
	Session  *engine.Session
	Cells    []*store.Cell

	// Snapshots holds the canonical view JSON after the initial
	// normalization and after each applied event, in order. Expect-error
	// scenarios produce none.
	Snapshots [][]byte

	// Err is the normalization failure an expect_error scenario demanded.
	Err error
}

// Option configures a scenario run.
type Option func(*runner)

// WithLogger sets the structured logger passed through to the session.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		r.logger = logger
	}
}

// WithRecorder registers a step recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *runner) {
		r.recorder = rec
	}
}

// WithMaxPasses overrides the session's rewrite-pass budget.
func WithMaxPasses(n int) Option {
	return func(r *runner) {
		r.maxPasses = n
	}
}

type runner struct {
	logger    *slog.Logger
	recorder  Recorder
	maxPasses int
}

// Run builds the scenario's fixture with deterministic leaf-name and cell-ID
// generators, normalizes, applies every scripted event, and checks the
// assertions. Two runs of the same scenario produce byte-identical snapshots.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	r := &runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	reg, capability := store.NewRegistry(testutil.NewSequence("cell"))
	root, cells, err := BuildFixture(scenario.Program, reg, capability)
	if err != nil {
		return nil, fmt.Errorf("build fixture %q: %w", scenario.Program, err)
	}

	sessOpts := []engine.Option{
		engine.WithNameGenerator(testutil.NewSequence("leaf")),
		engine.WithLogger(r.logger),
	}
	if r.maxPasses > 0 {
		sessOpts = append(sessOpts, engine.WithMaxPasses(r.maxPasses))
	}
	sess := engine.NewSession(root, reg, sessOpts...)

	result := &Result{Scenario: scenario, Session: sess, Cells: cells}

	view, err := sess.Normalize()
	if scenario.ExpectError != "" {
		if err == nil {
			return nil, fmt.Errorf("scenario %s: expected error %s, but normalization succeeded",
				scenario.Name, scenario.ExpectError)
		}
		if got := string(engine.CodeOf(err)); got != scenario.ExpectError {
			return nil, fmt.Errorf("scenario %s: expected error %s, got %s (%v)",
				scenario.Name, scenario.ExpectError, got, err)
		}
		result.Err = err
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %s: initial normalization failed: %w", scenario.Name, err)
	}
	if err := result.snapshot(view); err != nil {
		return nil, err
	}

	for i := range scenario.Events {
		spec := &scenario.Events[i]

		ev, err := resolveEvent(spec, view, cells)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: events[%d]: %w", scenario.Name, i, err)
		}

		applyErr := sess.Apply(ev)

		if spec.ExpectError != "" {
			if applyErr == nil {
				return nil, fmt.Errorf("scenario %s: events[%d]: expected error %s, but %s was accepted",
					scenario.Name, i, spec.ExpectError, ev)
			}
			if got := string(engine.CodeOf(applyErr)); got != spec.ExpectError {
				return nil, fmt.Errorf("scenario %s: events[%d]: expected error %s, got %s (%v)",
					scenario.Name, i, spec.ExpectError, got, applyErr)
			}
			// Rejected events leave tree and cells untouched; the prior
			// view is still current.
			continue
		}
		if applyErr != nil {
			return nil, fmt.Errorf("scenario %s: events[%d]: apply %s: %w",
				scenario.Name, i, ev, applyErr)
		}

		view, err = sess.Normalize()
		if err != nil {
			return nil, fmt.Errorf("scenario %s: events[%d]: normalize after %s: %w",
				scenario.Name, i, ev, err)
		}
		if err := result.snapshot(view); err != nil {
			return nil, err
		}

		if r.recorder != nil {
			if err := r.recorder(sess.Steps(), ev, view); err != nil {
				return nil, fmt.Errorf("scenario %s: events[%d]: record step: %w",
					scenario.Name, i, err)
			}
		}
	}

	if err := CheckAssertions(result); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	return result, nil
}

func (r *Result) snapshot(view *engine.View) error {
	data, err := view.MarshalJSON()
	if err != nil {
		return fmt.Errorf("scenario %s: snapshot view: %w", r.Scenario.Name, err)
	}
	r.Snapshots = append(r.Snapshots, data)
	return nil
}

// resolveEvent turns a scripted event into an engine event by resolving the
// leaf and store indexes against the live view and fixture cells.
//
// Out-of-range indexes resolve to identities the engine cannot know, so
// scenarios can script UNKNOWN_NAME and DANGLING_STORE rejections without
// guessing real tokens.
func resolveEvent(spec *EventSpec, view *engine.View, cells []*store.Cell) (engine.Event, error) {
	switch spec.Kind {
	case "enter":
		v, err := value.FromGo(spec.Value)
		if err != nil {
			return nil, fmt.Errorf("enter value: %w", err)
		}
		return engine.EnterValue{Name: leafName(view, *spec.Leaf), Value: v}, nil

	case "select":
		return engine.SelectOption{Name: leafName(view, *spec.Leaf), Label: spec.Label}, nil

	case "assign":
		v, err := value.FromGo(spec.Value)
		if err != nil {
			return nil, fmt.Errorf("assign value: %w", err)
		}
		return engine.AssignToStore{StoreID: cellID(cells, *spec.Store), Value: v}, nil

	default:
		return nil, fmt.Errorf("unknown event kind %q", spec.Kind)
	}
}

func leafName(view *engine.View, index int) task.Name {
	if index >= 0 && index < len(view.Leaves) {
		return view.Leaves[index].Name
	}
	return task.Name(fmt.Sprintf("missing-leaf-%d", index))
}

func cellID(cells []*store.Cell, index int) store.ID {
	if index >= 0 && index < len(cells) {
		return cells[index].ID()
	}
	return store.ID(fmt.Sprintf("missing-cell-%d", index))
}
