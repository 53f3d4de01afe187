package localexec

import (
	"fmt"
	"strings"
)

// RunError aggregates every step that ended FAILED or SKIPPED during a local
// run. It is returned only after all reachable branches have settled, so the
// caller gets the complete picture in one error.
type RunError struct {
	Failed  []string
	Skipped []string
}

// Error implements the error interface.
func (e *RunError) Error() string {
	var parts []string
	if len(e.Failed) > 0 {
		parts = append(parts, fmt.Sprintf("failed: %s", strings.Join(e.Failed, ", ")))
	}
	if len(e.Skipped) > 0 {
		parts = append(parts, fmt.Sprintf("skipped: %s", strings.Join(e.Skipped, ", ")))
	}
	return "local run did not complete cleanly (" + strings.Join(parts, "; ") + ")"
}
