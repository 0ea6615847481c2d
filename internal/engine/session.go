package engine

import (
	"io"
	"log/slog"

	"github.com/weft-lang/weft/internal/store"
	"github.com/weft-lang/weft/internal/task"
	"github.com/weft-lang/weft/internal/value"
)

// Session ties a running program together: the current task tree, the cell
// registry it reads and writes, and the generator assigning leaf names.
//
// The caller drives the loop:
//
//	view, err := s.Normalize()
//	... render view, obtain one input event ...
//	err = s.Apply(event)
//	view, err = s.Normalize()
//
// until the view reports a terminal value.
//
// Sessions are single-threaded by design: one event per step, no
// preemption. The registry is the only shared mutable resource.
type Session struct {
	root      task.Task
	reg       *store.Registry
	names     NameGenerator
	maxPasses int
	logger    *slog.Logger

	// view is the result of the last Normalize; nil while the tree is not
	// in normal form.
	view *View

	// steps counts applied input events.
	steps int64
}

// Option configures a Session.
type Option func(*Session)

// WithNameGenerator replaces the leaf-name generator.
// Tests use deterministic sequence generators for reproducible views.
func WithNameGenerator(gen NameGenerator) Option {
	return func(s *Session) {
		s.names = gen
	}
}

// WithMaxPasses sets the rewrite-pass budget per Normalize call.
//
// Default: 1000 passes (DefaultMaxPasses). Use a small value to exercise
// the non-productive-recursion guard in tests.
func WithMaxPasses(n int) Option {
	return func(s *Session) {
		s.maxPasses = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession creates a session evaluating root against reg.
func NewSession(root task.Task, reg *store.Registry, opts ...Option) *Session {
	s := &Session{
		root:      root,
		reg:       reg,
		names:     UUIDv7Generator{},
		maxPasses: DefaultMaxPasses,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalize rewrites the tree to normal form and returns the observable
// view. Normalizing an already-normal tree is a no-op returning an
// identical view.
func (s *Session) Normalize() (*View, error) {
	p := &passCtx{maxPasses: s.maxPasses, logger: s.logger}

	t, err := normalizeTree(s.root, p)
	if err != nil {
		s.logger.Error("normalization failed", "error", err, "passes", p.passes)
		return nil, err
	}
	s.root = t

	assignNames(s.root, s.names)
	s.view = buildView(s.root)

	s.logger.Debug("normal form reached",
		"passes", p.passes,
		"leaves", len(s.view.Leaves),
		"terminal", s.view.Resolved(),
	)
	return s.view, nil
}

// Root returns the current task tree.
func (s *Session) Root() task.Task {
	return s.root
}

// View returns the last computed view, or nil if the tree is not currently
// in normal form.
func (s *Session) View() *View {
	return s.view
}

// Result returns the terminal value if the tree has resolved to one.
func (s *Session) Result() (value.Value, bool) {
	if lift, ok := s.root.(*task.Lift); ok {
		return lift.Value, true
	}
	return nil, false
}

// Steps returns the number of input events applied so far.
func (s *Session) Steps() int64 {
	return s.steps
}

// Registry returns the session's cell registry.
func (s *Session) Registry() *store.Registry {
	return s.reg
}
