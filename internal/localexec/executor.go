// Package localexec runs a plan tree in-process, without any remote backend,
// honoring the same success-gated dependency semantics a batch scheduler
// would enforce: a step whose predecessor did not succeed is skipped, while
// unrelated branches run to completion.
package localexec

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/planit-dev/planit/internal/ctxlog"
	"github.com/planit-dev/planit/internal/plan"
)

// HandlerSource resolves a handler name to a runnable function, for steps
// that carry no bound function of their own (plans loaded from files).
type HandlerSource interface {
	Lookup(handler string) (plan.TaskFunc, bool)
}

// Option configures an Executor.
type Option func(*Executor)

// WithObserver registers a callback invoked on every step status transition.
// The callback is called from step goroutines and must be safe for
// concurrent use.
func WithObserver(fn func(Event)) Option {
	return func(e *Executor) { e.observe = fn }
}

// WithHandlers supplies the handler lookup used for steps without a bound
// function.
func WithHandlers(src HandlerSource) Option {
	return func(e *Executor) { e.handlers = src }
}

// Executor runs plans locally. An Executor is good for a single Run at a
// time; concurrent Runs on the same instance are not supported.
type Executor struct {
	observe  func(Event)
	handlers HandlerSource

	wg sync.WaitGroup

	mu    sync.Mutex
	steps []*stepRun
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// stepRun is the run-time state of one step instance. status and err are
// written only by the goroutine that owns the step and read only after the
// run's WaitGroup has drained.
type stepRun struct {
	id     string
	name   string
	status Status
	err    error
}

// signal is the completion future one step hands to its successors. status
// and err are written before done is closed and read only after <-done, so
// the channel close is the only synchronization point needed.
type signal struct {
	step   string
	done   chan struct{}
	status Status
	err    error
}

// Run executes the plan and blocks until every reachable step has reached a
// terminal status. It returns a RunError naming every failed and skipped
// step, or nil when everything succeeded. Once a step has started it runs to
// completion; cancellation of ctx only prevents steps from starting.
func (e *Executor) Run(ctx context.Context, p *plan.Plan) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Running plan locally.", "plan", p.Name())

	e.steps = e.steps[:0]
	e.start(ctx, p.Root(), nil)
	e.wg.Wait()

	runErr := &RunError{}
	for _, st := range e.steps {
		switch st.status {
		case StatusFailed:
			runErr.Failed = append(runErr.Failed, st.name)
		case StatusSkipped:
			runErr.Skipped = append(runErr.Skipped, st.name)
		}
	}
	if len(runErr.Failed) > 0 || len(runErr.Skipped) > 0 {
		logger.Error("Plan finished with failures.", "plan", p.Name(),
			"failed", runErr.Failed, "skipped", runErr.Skipped)
		return runErr
	}

	logger.Info("All steps completed.", "plan", p.Name())
	return nil
}

// start walks the tree and spawns one goroutine per step, returning the
// completion signals the subtree exposes to whatever follows it. The walk
// itself never blocks: a chain simply wires each child's gate to the
// previous child's signals, and the waiting happens inside the step
// goroutines. This mirrors the submission recursion shape exactly.
func (e *Executor) start(ctx context.Context, n plan.Node, deps []*signal) []*signal {
	switch n := n.(type) {
	case *plan.Step:
		st := &stepRun{id: uuid.NewString(), name: n.Name}
		e.mu.Lock()
		e.steps = append(e.steps, st)
		e.mu.Unlock()
		e.transition(st, StatusPending, nil)

		sig := &signal{step: n.Name, done: make(chan struct{})}
		e.wg.Add(1)
		go e.runStep(ctx, n, st, deps, sig)
		return []*signal{sig}

	case *plan.Chain:
		cur := deps
		for _, c := range n.Nodes {
			cur = e.start(ctx, c, cur)
		}
		return cur

	case *plan.Parallel:
		var out []*signal
		for _, c := range n.Nodes {
			out = append(out, e.start(ctx, c, deps)...)
		}
		return out

	default:
		return nil
	}
}

// runStep is the dedicated task for one step: wait for the predecessor gate,
// then execute the work and resolve the completion signal.
func (e *Executor) runStep(ctx context.Context, step *plan.Step, st *stepRun, deps []*signal, sig *signal) {
	defer e.wg.Done()
	logger := ctxlog.FromContext(ctx).With("step", st.name)

	for _, dep := range deps {
		select {
		case <-dep.done:
			if dep.status != StatusSucceeded {
				logger.Warn("Skipping step, dependency did not succeed.",
					"dependency", dep.step, "dependencyStatus", dep.status.String())
				e.resolve(st, sig, StatusSkipped,
					fmt.Errorf("dependency %q ended %s", dep.step, dep.status))
				return
			}
		case <-ctx.Done():
			logger.Warn("Skipping step, context canceled before start.")
			e.resolve(st, sig, StatusSkipped, ctx.Err())
			return
		}
	}

	if err := ctx.Err(); err != nil {
		logger.Warn("Skipping step, context canceled before start.")
		e.resolve(st, sig, StatusSkipped, err)
		return
	}

	fn := step.Task.Func
	if fn == nil && e.handlers != nil {
		if h, ok := e.handlers.Lookup(step.Task.Handler); ok {
			fn = h
		}
	}
	if fn == nil {
		e.resolve(st, sig, StatusFailed,
			fmt.Errorf("no runnable work bound for handler %q", step.Task.Handler))
		return
	}

	e.transition(st, StatusRunning, nil)
	logger.Info("Step started.")
	if err := fn(ctx); err != nil {
		logger.Error("Step failed.", "error", err)
		e.resolve(st, sig, StatusFailed, err)
		return
	}
	logger.Info("Step finished.")
	e.resolve(st, sig, StatusSucceeded, nil)
}

// transition records a status on the step state and notifies the observer.
func (e *Executor) transition(st *stepRun, status Status, err error) {
	st.status = status
	st.err = err
	if e.observe != nil {
		e.observe(Event{StepID: st.id, Step: st.name, Status: status, Err: err})
	}
}

// resolve records the terminal status and releases everything gated on this
// step's signal.
func (e *Executor) resolve(st *stepRun, sig *signal, status Status, err error) {
	e.transition(st, status, err)
	sig.status = status
	sig.err = err
	close(sig.done)
}
