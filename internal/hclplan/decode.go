package hclplan

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/planit-dev/planit/internal/plan"
	"github.com/planit-dev/planit/internal/slurm"
)

// groupSchema describes the bodies of plan, chain and parallel blocks. The
// decoded BodyContent keeps blocks in source order, which carries the
// sequencing meaning for chains.
var groupSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "step", LabelNames: []string{"name"}},
		{Type: "chain"},
		{Type: "parallel"},
	},
}

var stepSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "handler", Required: true},
		{Name: "time", Required: true},
		{Name: "partition", Required: true},
		{Name: "args"},
		{Name: "kwargs"},
		{Name: "gpus_per_node"},
		{Name: "nodes"},
		{Name: "cpus_per_task"},
		{Name: "cpus_per_gpu"},
		{Name: "mem_gb"},
		{Name: "account"},
		{Name: "cluster"},
		{Name: "mail_type"},
		{Name: "mail_user"},
		{Name: "params"},
	},
}

func decodePlan(block *hcl.Block) (*plan.Plan, error) {
	name := block.Labels[0]
	nodes, err := decodeChildren(block.Body)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, &plan.ConfigError{
			Reason: fmt.Sprintf("plan %q must contain exactly one root node block, found %d", name, len(nodes)),
		}
	}
	return plan.New(name, nodes[0])
}

// decodeChildren decodes the node blocks of a chain, parallel or plan body,
// in source order.
func decodeChildren(body hcl.Body) ([]plan.Node, error) {
	content, diags := body.Content(groupSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	var nodes []plan.Node
	for _, b := range content.Blocks {
		switch b.Type {
		case "step":
			n, err := decodeStep(b)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		case "chain":
			kids, err := decodeChildren(b.Body)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, plan.NewChain(kids...))
		case "parallel":
			kids, err := decodeChildren(b.Body)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, plan.NewParallel(kids...))
		}
	}
	return nodes, nil
}

func decodeStep(block *hcl.Block) (*plan.Step, error) {
	name := block.Labels[0]
	content, diags := block.Body.Content(stepSchema)
	if diags.HasErrors() {
		return nil, diags
	}
	attrs := content.Attributes

	dec := &stepDecoder{attrs: attrs}

	args := slurm.Args{
		Time:        dec.str("time"),
		Partition:   dec.str("partition"),
		GPUsPerNode: dec.num("gpus_per_node"),
		Nodes:       dec.num("nodes"),
		CPUsPerTask: dec.num("cpus_per_task"),
		CPUsPerGPU:  dec.num("cpus_per_gpu"),
		MemGB:       dec.num("mem_gb"),
		Account:     dec.str("account"),
		Cluster:     dec.str("cluster"),
		MailUser:    dec.str("mail_user"),
	}
	for _, kind := range dec.strList("mail_type") {
		args.MailType = append(args.MailType, slurm.MailType(kind))
	}
	args.AdditionalParams = dec.anyMap("params")

	task := plan.Task{
		Handler: dec.str("handler"),
		Args:    dec.anyList("args"),
		Kwargs:  dec.anyMap("kwargs"),
	}
	if dec.err != nil {
		return nil, fmt.Errorf("step %q: %w", name, dec.err)
	}

	return plan.NewStep(name, task, args), nil
}
