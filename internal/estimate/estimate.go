// Package estimate computes critical-path durations over a plan tree and
// renders the tree for display.
package estimate

import (
	"fmt"
	"time"

	"github.com/planit-dev/planit/internal/plan"
	"github.com/planit-dev/planit/internal/walltime"
)

// CriticalPath computes the longest-duration path through the tree: a step
// contributes its own parsed wall-time, a chain the sum of its children and
// a parallel the slowest of its branches. This bounds the best-case total
// wall time, ignoring queueing.
func CriticalPath(n plan.Node) (time.Duration, error) {
	switch n := n.(type) {
	case *plan.Step:
		ts, ok := n.Res.WallTime()
		if !ok {
			return 0, &plan.ConfigError{Reason: fmt.Sprintf("step %q: resources must include a wall-time field", n.Name)}
		}
		d, err := walltime.Parse(ts)
		if err != nil {
			return 0, &plan.ConfigError{Reason: fmt.Sprintf("step %q: %v", n.Name, err)}
		}
		return d, nil
	case *plan.Chain:
		var total time.Duration
		for _, c := range n.Nodes {
			d, err := CriticalPath(c)
			if err != nil {
				return 0, err
			}
			total += d
		}
		return total, nil
	case *plan.Parallel:
		var slowest time.Duration
		for _, c := range n.Nodes {
			d, err := CriticalPath(c)
			if err != nil {
				return 0, err
			}
			if d > slowest {
				slowest = d
			}
		}
		return slowest, nil
	default:
		return 0, &plan.ConfigError{Reason: fmt.Sprintf("unknown node type %T", n)}
	}
}
