// Package resolver turns a plan tree into dependency-linked job submissions
// against a backend. The walk is sequential and holds no job-level state of
// its own; everything lives in the handles the backend issues.
package resolver

import (
	"context"
	"fmt"

	"github.com/planit-dev/planit/internal/backend"
	"github.com/planit-dev/planit/internal/ctxlog"
	"github.com/planit-dev/planit/internal/plan"
)

// SubmitError reports a backend rejection for a single step. Jobs submitted
// before the failure are not rolled back; partial submission is an
// observable outcome the caller has to deal with.
type SubmitError struct {
	Step string
	Err  error
}

// Error implements the error interface.
func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit step %q: %v", e.Step, e.Err)
}

// Unwrap exposes the backend error for errors.Is/As.
func (e *SubmitError) Unwrap() error { return e.Err }

// Resolver submits plan trees through a backend, one job per step, with the
// predecessor relation mirroring the tree's sequencing exactly.
type Resolver struct {
	backend backend.Backend
}

// New creates a Resolver bound to the given backend.
func New(b backend.Backend) *Resolver {
	return &Resolver{backend: b}
}

// Submit walks the tree and submits every step exactly once. It returns the
// handles of all submitted jobs in submission order; on error the slice
// holds whatever was already queued.
func (r *Resolver) Submit(ctx context.Context, p *plan.Plan) ([]*backend.Handle, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Submitting plan.", "plan", p.Name())

	var all []*backend.Handle
	if _, err := r.resolve(ctx, p.Root(), DepSet{}, &all); err != nil {
		return all, err
	}

	logger.Info("All jobs queued.", "plan", p.Name(), "jobs", len(all))
	return all, nil
}

// resolve returns the terminal handle set the given subtree exposes to
// whatever follows it:
//
//   - Step: submit one job gated on the incoming set; the result is that
//     single handle.
//   - Chain: thread the set through the children in order, so each child is
//     gated on the previous child's terminal set (fan-in included, when a
//     previous child was a parallel with several terminal branches).
//   - Parallel: resolve every child against the same incoming set and return
//     the union, which becomes the fan-in gate for whatever follows.
func (r *Resolver) resolve(ctx context.Context, n plan.Node, deps DepSet, all *[]*backend.Handle) (DepSet, error) {
	switch n := n.(type) {
	case *plan.Step:
		after := deps.IDs()
		spec := backend.JobSpec{
			Name:    n.Name,
			Handler: n.Task.Handler,
			Args:    n.Task.Args,
			Kwargs:  n.Task.Kwargs,
			Params:  n.Res.Params(),
		}
		h, err := r.backend.Submit(ctx, spec, after)
		if err != nil {
			return nil, &SubmitError{Step: n.Name, Err: err}
		}
		*all = append(*all, h)
		ctxlog.FromContext(ctx).Info("Queued step.", "step", n.Name, "jobID", h.ID, "after", after)
		return DepSet{h.ID: h}, nil

	case *plan.Chain:
		cur := deps
		for _, c := range n.Nodes {
			next, err := r.resolve(ctx, c, cur, all)
			if err != nil {
				return nil, err
			}
			cur = next
		}
		return cur, nil

	case *plan.Parallel:
		out := make(DepSet)
		for _, c := range n.Nodes {
			got, err := r.resolve(ctx, c, deps, all)
			if err != nil {
				return nil, err
			}
			for id, h := range got {
				out[id] = h
			}
		}
		return out, nil

	default:
		return nil, &plan.ConfigError{Reason: fmt.Sprintf("unknown node type %T", n)}
	}
}
