// Package plan defines the node tree a workflow is declared as, and the Plan
// that binds a tree to a name. Trees are built bottom-up as literal values
// and are read-only after construction; consumers (estimator, resolver,
// local executor) interpret them via exhaustive dispatch over the three node
// shapes.
package plan

import (
	"fmt"

	"github.com/planit-dev/planit/internal/walltime"
)

// Plan binds a name to the root of a validated node tree.
type Plan struct {
	name string
	root Node
}

// New validates the tree and wraps it in a Plan. Validation rejects empty
// Chain/Parallel children lists and steps whose resources carry a missing or
// malformed wall-time field; both are configuration errors, raised here
// rather than at submission time.
func New(name string, root Node) (*Plan, error) {
	if root == nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("plan %q: root node must not be nil", name)}
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return &Plan{name: name, root: root}, nil
}

// Name returns the plan name used for display.
func (p *Plan) Name() string { return p.name }

// Root returns the root node of the tree.
func (p *Plan) Root() Node { return p.root }

// Validate walks the tree and reports the first configuration error found.
func Validate(n Node) error {
	switch n := n.(type) {
	case *Step:
		ts, ok := n.Res.WallTime()
		if !ok {
			return &ConfigError{Reason: fmt.Sprintf("step %q: resources must include a wall-time field", n.Name)}
		}
		if _, err := walltime.Parse(ts); err != nil {
			return &ConfigError{Reason: fmt.Sprintf("step %q: %v", n.Name, err)}
		}
		return nil
	case *Chain:
		if len(n.Nodes) == 0 {
			return &ConfigError{Reason: "chain must have at least one child"}
		}
		return validateChildren(n.Nodes)
	case *Parallel:
		if len(n.Nodes) == 0 {
			return &ConfigError{Reason: "parallel must have at least one child"}
		}
		return validateChildren(n.Nodes)
	default:
		return &ConfigError{Reason: fmt.Sprintf("unknown node type %T", n)}
	}
}

func validateChildren(nodes []Node) error {
	for _, c := range nodes {
		if err := Validate(c); err != nil {
			return err
		}
	}
	return nil
}
