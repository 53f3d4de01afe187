package estimate

import (
	"fmt"
	"io"

	"github.com/planit-dev/planit/internal/plan"
	"github.com/planit-dev/planit/internal/walltime"
)

// Node kind glyphs. These, and the bracketed duration annotations, are a
// byte-exact output contract.
const (
	glyphStep     = "●"
	glyphChain    = "▼"
	glyphParallel = "⇉"
)

// Render writes the plan as an indented tree with per-node duration
// estimates, followed by the total critical-path estimate.
func Render(w io.Writer, p *plan.Plan) error {
	total, err := CriticalPath(p.Root())
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Plan: %s\n", p.Name()); err != nil {
		return err
	}
	if err := renderNode(w, p.Root(), "", true); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Time estimate (ignoring queue time): %s\n", walltime.Format(total))
	return err
}

func renderNode(w io.Writer, n plan.Node, prefix string, isLast bool) error {
	marker := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		marker = "└── "
		childPrefix = prefix + "    "
	}

	d, err := CriticalPath(n)
	if err != nil {
		return err
	}

	switch n := n.(type) {
	case *plan.Step:
		_, err := fmt.Fprintf(w, "%s%s%s %s [%s]\n", prefix, marker, glyphStep, n.Name, walltime.Format(d))
		return err
	case *plan.Chain:
		if _, err := fmt.Fprintf(w, "%s%s%s Chain [%s]\n", prefix, marker, glyphChain, walltime.Format(d)); err != nil {
			return err
		}
		return renderChildren(w, n.Nodes, childPrefix)
	case *plan.Parallel:
		if _, err := fmt.Fprintf(w, "%s%s%s Parallel [%s]\n", prefix, marker, glyphParallel, walltime.Format(d)); err != nil {
			return err
		}
		return renderChildren(w, n.Nodes, childPrefix)
	default:
		return &plan.ConfigError{Reason: fmt.Sprintf("unknown node type %T", n)}
	}
}

func renderChildren(w io.Writer, nodes []plan.Node, prefix string) error {
	for i, c := range nodes {
		if err := renderNode(w, c, prefix, i == len(nodes)-1); err != nil {
			return err
		}
	}
	return nil
}
