// Package backend defines the contract between the plan resolver and a
// remote batch scheduler.
package backend

import "context"

// JobSpec describes a single job submission. The handler identifier and its
// arguments are opaque to the core and pass through unexamined, as do the
// scheduler parameters. Jobs never exchange data through the core; anything
// they share goes through storage they arrange themselves.
type JobSpec struct {
	Name    string
	Handler string
	Args    []any
	Kwargs  map[string]any
	Params  map[string]any
}

// Handle is an opaque reference to a submitted job. ID identifies the job to
// the backend that issued it; Status is whatever the backend last reported
// and is never interpreted by the core.
type Handle struct {
	ID     string
	Status string
}

// Backend submits jobs to a remote batch scheduler.
//
// Implementations must give the predecessor list afterok semantics: the job
// may start only once every listed predecessor has completed successfully,
// and must be cancelled by the scheduler if any of them fails. The resolver
// relies on the backend for that and never polls job state itself.
type Backend interface {
	Submit(ctx context.Context, spec JobSpec, after []string) (*Handle, error)
}
