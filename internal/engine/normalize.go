package engine

import (
	"fmt"
	"log/slog"

	"github.com/weft-lang/weft/internal/store"
	"github.com/weft-lang/weft/internal/task"
)

// DefaultMaxPasses bounds the total number of rewrite passes one Normalize
// call may spend, across speculative sub-normalizations included. A healthy
// tree normalizes in a handful of passes; the cap is the backstop behind the
// fingerprint-based progress guard.
const DefaultMaxPasses = 1000

// passCtx carries the shared accounting of one Normalize call.
//
// fired marks whether the current pass applied at least one rule. passes
// counts every pass spent anywhere in this call, including speculative
// normalization of step continuations; it is the budget that guarantees
// termination when a program unfolds productively-looking but endlessly.
// speculative marks a trial reduction used to decide step acceptance;
// while set, rules with side effects must not touch the registry.
type passCtx struct {
	fired       bool
	passes      int
	maxPasses   int
	speculative bool
	logger      *slog.Logger
}

// normalizeTree rewrites t to normal form.
//
// Each outer iteration runs one full bottom-up pass. The pass history is
// tracked by tree fingerprint: a pass that fires rules yet reproduces a
// shape already seen in this call has consumed no input and exposed no new
// leaf - the non-productive recursion the language documents as a hazard of
// self-recursive step chains. That shape recurrence is reported as an
// error, never looped on.
func normalizeTree(t task.Task, p *passCtx) (task.Task, error) {
	seen := make(map[string]bool)

	for {
		fp, err := Fingerprint(t)
		if err != nil {
			return nil, err
		}
		if seen[fp] {
			return nil, newNonProductive(
				"rewriting returned to a tree of identical shape without reaching an interaction point")
		}
		seen[fp] = true

		p.passes++
		if p.passes > p.maxPasses {
			return nil, newNonProductive(
				fmt.Sprintf("rewrite budget exhausted after %d passes", p.maxPasses))
		}

		p.fired = false
		t, err = rewritePass(t, p)
		if err != nil {
			return nil, err
		}
		if !p.fired {
			return t, nil
		}
		p.logger.Debug("rewrite pass applied", "pass", p.passes)
	}
}

// rewritePass applies the rewrite rules bottom-up, once, over the whole
// tree. Redexes produced by a firing (a step continuation, a resolved
// choice) are left for the next pass so the progress guard can observe
// every intermediate shape.
func rewritePass(t task.Task, p *passCtx) (task.Task, error) {
	switch n := t.(type) {
	case *task.Lift, *task.Fail:
		return t, nil

	case *task.Assert:
		p.fired = true
		if n.Cond {
			return &task.Lift{Value: boolTrue}, nil
		}
		return &task.Fail{}, nil

	case *task.Assign:
		if p.speculative {
			// Trial reduction: assume the write would succeed, leave the
			// cell untouched. A rejected continuation must not move any
			// generation; an accepted one re-reduces for real.
			p.fired = true
			return &task.Lift{Value: unitValue}, nil
		}
		gen, err := n.Cell.Write(n.Value)
		if err != nil {
			return nil, assignError(n.Cell.ID(), err)
		}
		p.fired = true
		p.logger.Debug("cell assigned",
			"store", string(n.Cell.ID()),
			"generation", gen,
		)
		return &task.Lift{Value: unitValue}, nil

	case *task.Edit:
		return rewriteEdit(n, p)

	case *task.Select:
		inner, err := rewritePass(n.Inner, p)
		if err != nil {
			return nil, err
		}
		if _, isFail := inner.(*task.Fail); isFail {
			p.fired = true
			return &task.Fail{}, nil
		}
		return &task.Select{Name: n.Name, Inner: inner, Options: n.Options}, nil

	case *task.Trans:
		inner, err := rewritePass(n.Inner, p)
		if err != nil {
			return nil, err
		}
		switch in := inner.(type) {
		case *task.Lift:
			p.fired = true
			return &task.Lift{Value: n.Fn(in.Value)}, nil
		case *task.Fail:
			p.fired = true
			return &task.Fail{}, nil
		default:
			return &task.Trans{Fn: n.Fn, Inner: inner}, nil
		}

	case *task.Pair:
		left, err := rewritePass(n.Left, p)
		if err != nil {
			return nil, err
		}
		right, err := rewritePass(n.Right, p)
		if err != nil {
			return nil, err
		}
		// A failed side does not tear down its sibling: failure propagates
		// through choice resolution only, so Pair(Fail, t) keeps t's leaves
		// interactive and simply never produces a combined result.
		if lv, ok := left.(*task.Lift); ok {
			if rv, ok := right.(*task.Lift); ok {
				p.fired = true
				return &task.Lift{Value: tupleOf(lv.Value, rv.Value)}, nil
			}
		}
		return &task.Pair{Left: left, Right: right}, nil

	case *task.Choose:
		return rewriteChoose(n, p)

	case *task.Step:
		return rewriteStep(n, p)

	default:
		return nil, fmt.Errorf("normalize: unknown task variant %T", t)
	}
}

// rewriteEdit re-derives stale reactive leaves from their cells. A leaf
// whose cached generation trails the cell discards its local interaction
// state and takes the cell's value; this is how one branch's write becomes
// visible to every dependent leaf in the whole tree.
func rewriteEdit(n *task.Edit, p *passCtx) (task.Task, error) {
	switch ed := n.Editor.(type) {
	case *task.Watch:
		v, gen, err := ed.Cell.Read()
		if err != nil {
			return nil, assignError(ed.Cell.ID(), err)
		}
		if gen != ed.Gen {
			p.fired = true
			return &task.Edit{Name: n.Name, Editor: &task.Watch{Cell: ed.Cell, Value: v, Gen: gen}}, nil
		}
		return n, nil

	case *task.Change:
		v, gen, err := ed.Cell.Read()
		if err != nil {
			return nil, assignError(ed.Cell.ID(), err)
		}
		if gen != ed.Gen {
			p.fired = true
			return &task.Edit{Name: n.Name, Editor: &task.Change{Cell: ed.Cell, Value: v, Gen: gen}}, nil
		}
		return n, nil

	default:
		return n, nil
	}
}

// rewriteChoose resolves failed alternatives and takes a pure left result.
// When both branches are simultaneously viable and neither is pure, the
// left branch is kept as the exposed one and the right is retained,
// unexposed, for future steps - left bias is the deterministic tie-break.
func rewriteChoose(n *task.Choose, p *passCtx) (task.Task, error) {
	left, err := rewritePass(n.Left, p)
	if err != nil {
		return nil, err
	}
	if _, isFail := left.(*task.Fail); isFail {
		p.fired = true
		return rewritePass(n.Right, p)
	}
	if _, isLift := left.(*task.Lift); isLift {
		p.fired = true
		return left, nil
	}

	right, err := rewritePass(n.Right, p)
	if err != nil {
		return nil, err
	}
	if _, isFail := right.(*task.Fail); isFail {
		p.fired = true
		return left, nil
	}

	return &task.Choose{Left: left, Right: right}, nil
}

// rewriteStep sequences the continuation once the inner task has a result.
//
// A pure inner fires unconditionally. An inner that is still an editor but
// already carries a value fires only if the continuation would not reduce
// to Fail - a failing continuation means the program is waiting for a more
// acceptable value, so the editor stays interactive. Failing-ness is
// decided by an effect-free trial reduction; an accepted continuation is
// handed back un-reduced so its assigns run in ordinary passes.
func rewriteStep(n *task.Step, p *passCtx) (task.Task, error) {
	inner, err := rewritePass(n.Inner, p)
	if err != nil {
		return nil, err
	}

	if _, isFail := inner.(*task.Fail); isFail {
		p.fired = true
		return &task.Fail{}, nil
	}

	if lv, ok := inner.(*task.Lift); ok {
		p.fired = true
		return n.Cont(lv.Value), nil
	}

	if v, ok := resultOf(inner); ok {
		failing, err := wouldFail(n.Cont(v), p)
		if err != nil {
			return nil, err
		}
		if failing {
			// Continuation rejects the current value; keep waiting.
			return &task.Step{Inner: inner, Cont: n.Cont}, nil
		}
		p.fired = true
		return n.Cont(v), nil
	}

	return &task.Step{Inner: inner, Cont: n.Cont}, nil
}

// wouldFail reports whether t reduces to Fail, without running any of its
// effects: no cell is written during the trial, whichever way it goes. The
// trial shares this call's pass budget, which is what turns an
// always-firing self-recursive step chain into a detected error instead of
// unbounded unfolding.
func wouldFail(t task.Task, p *passCtx) (bool, error) {
	savedFired, savedSpec := p.fired, p.speculative
	p.speculative = true
	reduced, err := normalizeTree(t, p)
	p.fired, p.speculative = savedFired, savedSpec
	if err != nil {
		return false, err
	}
	_, isFail := reduced.(*task.Fail)
	return isFail, nil
}

// assignError maps registry failures onto the engine taxonomy.
func assignError(id store.ID, err error) error {
	if store.IsDangling(err) {
		return newDanglingStore(id)
	}
	return fmt.Errorf("store %s: %w", id, err)
}
