// Package slurm models the resource specification a step hands to a SLURM
// style batch backend: either the typed Args convenience wrapper or an
// untyped RawParams map for clusters that need parameters Args does not
// cover.
package slurm

import (
	"fmt"
	"strings"

	"github.com/planit-dev/planit/internal/plan"
)

// MailType enumerates the job notification kinds SLURM can send.
type MailType string

const (
	MailNone    MailType = "NONE"
	MailBegin   MailType = "BEGIN"
	MailEnd     MailType = "END"
	MailFail    MailType = "FAIL"
	MailRequeue MailType = "REQUEUE"
	MailAll     MailType = "ALL"
)

// Args is a convenience wrapper for common SLURM parameters. It covers the
// usual cases; clusters requiring different parameters can pass a RawParams
// map to a step instead.
type Args struct {
	Time        string // "HH:MM:SS", "MM:SS" or "D-HH:MM:SS"
	Partition   string
	GPUsPerNode int
	Nodes       int // emitted only when greater than one
	CPUsPerTask int
	CPUsPerGPU  int
	MemGB       int
	Account     string
	Cluster     string
	MailType    []MailType
	MailUser    string

	// AdditionalParams is merged into slurm_additional_parameters as-is.
	AdditionalParams map[string]any
}

var _ plan.Resources = Args{}

// WallTime implements plan.Resources.
func (a Args) WallTime() (string, bool) {
	return a.Time, a.Time != ""
}

// Params implements plan.Resources. The translation mirrors the submitit
// parameter names the backend expects.
func (a Args) Params() map[string]any {
	params := map[string]any{
		"slurm_time":      a.Time,
		"slurm_partition": a.Partition,
		"gpus_per_node":   a.GPUsPerNode,
	}
	if a.CPUsPerTask > 0 {
		params["cpus_per_task"] = a.CPUsPerTask
	}
	if a.MemGB > 0 {
		params["mem_gb"] = a.MemGB
	}

	additional := map[string]any{}
	if a.Nodes > 1 {
		additional["nodes"] = a.Nodes
	}
	if a.CPUsPerGPU > 0 {
		additional["cpus_per_gpu"] = a.CPUsPerGPU
	}
	if a.Account != "" {
		additional["account"] = a.Account
	}
	if a.Cluster != "" {
		// NOTE: the key is indeed plural on VSC clusters.
		additional["clusters"] = a.Cluster
	}
	if len(a.MailType) > 0 {
		kinds := make([]string, len(a.MailType))
		for i, m := range a.MailType {
			kinds[i] = string(m)
		}
		additional["mail_type"] = strings.Join(kinds, ",")
	}
	if a.MailUser != "" {
		additional["mail_user"] = a.MailUser
	}
	for k, v := range a.AdditionalParams {
		additional[k] = v
	}

	if len(additional) > 0 {
		params["slurm_additional_parameters"] = additional
	}
	return params
}

// RawParams is an untyped parameter map passed to the backend as-is. It must
// include a "slurm_time" entry for duration estimation.
type RawParams map[string]any

var _ plan.Resources = RawParams{}

// WallTime implements plan.Resources. Non-string values are stringified so
// that a malformed entry surfaces as a parse error rather than silently
// vanishing.
func (r RawParams) WallTime() (string, bool) {
	v, ok := r["slurm_time"]
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Params implements plan.Resources.
func (r RawParams) Params() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
