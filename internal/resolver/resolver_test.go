package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planit-dev/planit/internal/backend"
	"github.com/planit-dev/planit/internal/plan"
	"github.com/planit-dev/planit/internal/slurm"
)

// fakeBackend records every submission so tests can assert the exact
// predecessor relation handed to the scheduler.
type fakeBackend struct {
	nextID int
	subs   []submission
	failOn string
}

type submission struct {
	spec  backend.JobSpec
	after []string
}

func (f *fakeBackend) Submit(_ context.Context, spec backend.JobSpec, after []string) (*backend.Handle, error) {
	if f.failOn != "" && spec.Name == f.failOn {
		return nil, errors.New("queue unavailable")
	}
	f.nextID++
	f.subs = append(f.subs, submission{spec: spec, after: after})
	return &backend.Handle{ID: fmt.Sprintf("job-%d", f.nextID), Status: "PENDING"}, nil
}

func (f *fakeBackend) byName(name string) (submission, bool) {
	for _, s := range f.subs {
		if s.spec.Name == name {
			return s, true
		}
	}
	return submission{}, false
}

func step(name string) *plan.Step {
	return plan.NewStep(name, plan.Task{Handler: "noop"}, slurm.Args{Time: "01:00:00", Partition: "batch"})
}

func mustPlan(t *testing.T, root plan.Node) *plan.Plan {
	t.Helper()
	p, err := plan.New("test", root)
	require.NoError(t, err)
	return p
}

func TestSubmitChainSequencing(t *testing.T) {
	fb := &fakeBackend{}
	p := mustPlan(t, plan.NewChain(step("a"), step("b"), step("c")))

	handles, err := New(fb).Submit(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, handles, 3)
	require.Len(t, fb.subs, 3)

	assert.Empty(t, fb.subs[0].after)
	assert.Equal(t, []string{"job-1"}, fb.subs[1].after)
	assert.Equal(t, []string{"job-2"}, fb.subs[2].after)
}

func TestSubmitParallelFanOutAndFanIn(t *testing.T) {
	fb := &fakeBackend{}
	p := mustPlan(t, plan.NewChain(
		step("first"),
		plan.NewParallel(step("a"), step("b")),
		step("d"),
	))

	_, err := New(fb).Submit(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, fb.subs, 4)

	// Both branches share the same incoming predecessor.
	a, ok := fb.byName("a")
	require.True(t, ok)
	b, ok := fb.byName("b")
	require.True(t, ok)
	assert.Equal(t, []string{"job-1"}, a.after)
	assert.Equal(t, []string{"job-1"}, b.after)

	// The follower is gated on the union of the fan-out's terminal handles.
	d, ok := fb.byName("d")
	require.True(t, ok)
	assert.Equal(t, []string{"job-2", "job-3"}, d.after)
}

func TestSubmitNestedChainInParallel(t *testing.T) {
	fb := &fakeBackend{}
	p := mustPlan(t, plan.NewChain(
		plan.NewParallel(
			step("solo"),
			plan.NewChain(step("inner1"), step("inner2")),
		),
		step("last"),
	))

	_, err := New(fb).Submit(context.Background(), p)
	require.NoError(t, err)

	// Submission order: solo=job-1, inner1=job-2, inner2=job-3, last=job-4.
	inner1, ok := fb.byName("inner1")
	require.True(t, ok)
	inner2, ok := fb.byName("inner2")
	require.True(t, ok)
	assert.Empty(t, inner1.after)
	assert.Equal(t, []string{"job-2"}, inner2.after)

	// Only the terminal node of the inner chain gates the follower, together
	// with the solo branch.
	last, ok := fb.byName("last")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"job-1", "job-3"}, last.after)
}

func TestSubmitEveryStepExactlyOnce(t *testing.T) {
	fb := &fakeBackend{}
	p := mustPlan(t, plan.NewChain(
		step("a"),
		plan.NewParallel(step("b"), step("c"), plan.NewChain(step("d"), step("e"))),
		step("f"),
	))

	handles, err := New(fb).Submit(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, handles, 6)

	seen := map[string]int{}
	for _, s := range fb.subs {
		seen[s.spec.Name]++
	}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		assert.Equal(t, 1, seen[name], "step %q", name)
	}
}

func TestSubmitSpecPassthrough(t *testing.T) {
	fb := &fakeBackend{}
	s := plan.NewStep("train",
		plan.Task{Handler: "train_model", Args: []any{"en", "bert"}, Kwargs: map[string]any{"epochs": 2}},
		slurm.Args{Time: "02:00:00", Partition: "gpu", GPUsPerNode: 4},
	)
	p := mustPlan(t, s)

	_, err := New(fb).Submit(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, fb.subs, 1)

	spec := fb.subs[0].spec
	assert.Equal(t, "train", spec.Name)
	assert.Equal(t, "train_model", spec.Handler)
	assert.Equal(t, []any{"en", "bert"}, spec.Args)
	assert.Equal(t, map[string]any{"epochs": 2}, spec.Kwargs)
	assert.Equal(t, "02:00:00", spec.Params["slurm_time"])
	assert.Equal(t, "gpu", spec.Params["slurm_partition"])
}

func TestSubmitErrorStopsWalkWithoutRollback(t *testing.T) {
	fb := &fakeBackend{failOn: "b"}
	p := mustPlan(t, plan.NewChain(step("a"), step("b"), step("c")))

	handles, err := New(fb).Submit(context.Background(), p)

	var subErr *SubmitError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "b", subErr.Step)

	// The job queued before the failure stays queued; nothing after it is
	// submitted.
	assert.Len(t, handles, 1)
	require.Len(t, fb.subs, 1)
	assert.Equal(t, "a", fb.subs[0].spec.Name)
}

func TestDepSetIDsSorted(t *testing.T) {
	s := DepSet{
		"job-9": &backend.Handle{ID: "job-9"},
		"job-1": &backend.Handle{ID: "job-1"},
		"job-5": &backend.Handle{ID: "job-5"},
	}
	assert.Equal(t, []string{"job-1", "job-5", "job-9"}, s.IDs())
}
