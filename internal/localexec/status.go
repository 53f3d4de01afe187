package localexec

// Status is the lifecycle state of a step during a local run.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
	StatusSkipped
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusRunning:
		return "RUNNING"
	case StatusSucceeded:
		return "SUCCEEDED"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// Event is a single observable status transition of a step. StepID is unique
// per step instance within a run, since step names are not required to be
// unique. Err is set for FAILED and SKIPPED transitions.
type Event struct {
	StepID string
	Step   string
	Status Status
	Err    error
}
