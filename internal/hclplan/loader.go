// Package hclplan loads plan definitions from HCL files. A plan is declared
// as a `plan "name"` block holding exactly one root node block, where node
// blocks are `step "name"`, `chain` and `parallel`, nested arbitrarily.
// Block order inside a chain is semantic, so bodies are decoded through
// hcl.Body.Content, which preserves source order across block types.
package hclplan

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/planit-dev/planit/internal/ctxlog"
	"github.com/planit-dev/planit/internal/fsutil"
	"github.com/planit-dev/planit/internal/plan"
)

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "plan", LabelNames: []string{"name"}},
	},
}

// Load reads the plan defined at path, which is either a single .hcl file or
// a directory searched recursively for .hcl files. Exactly one plan block
// must be present across all files.
func Load(ctx context.Context, path string) (*plan.Plan, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = fsutil.FindByExt(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan directory: %w", err)
		}
	}
	logger.Debug("Loading plan files.", "count", len(files))

	parser := hclparse.NewParser()
	var plans []*plan.Plan
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, diags
		}
		content, diags := f.Body.Content(rootSchema)
		if diags.HasErrors() {
			return nil, diags
		}
		for _, block := range content.Blocks {
			p, err := decodePlan(block)
			if err != nil {
				return nil, err
			}
			plans = append(plans, p)
		}
	}

	switch len(plans) {
	case 0:
		return nil, &plan.ConfigError{Reason: fmt.Sprintf("no plan block found under %q", path)}
	case 1:
		logger.Debug("Plan loaded.", "plan", plans[0].Name())
		return plans[0], nil
	default:
		return nil, &plan.ConfigError{Reason: fmt.Sprintf("expected exactly one plan block under %q, found %d", path, len(plans))}
	}
}
