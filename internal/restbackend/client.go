// Package restbackend implements backend.Backend against an HTTP batch
// scheduler API. Jobs are created with POST <base>/jobs; the scheduler is
// responsible for the afterok semantics of the depends_on list.
package restbackend

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"github.com/planit-dev/planit/internal/backend"
)

// submitRequest is the wire form of one job submission.
type submitRequest struct {
	Name      string         `json:"name"`
	Handler   string         `json:"handler"`
	Args      []any          `json:"args,omitempty"`
	Kwargs    map[string]any `json:"kwargs,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	DependsOn []string       `json:"depends_on,omitempty"`
}

// submitResponse is the scheduler's answer to a job submission.
type submitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Client is an HTTP backend.Backend.
type Client struct {
	http *resty.Client
}

var _ backend.Backend = (*Client)(nil)

// New creates a Client for the scheduler at baseURL.
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL),
	}
}

// Submit implements backend.Backend.
func (c *Client) Submit(ctx context.Context, spec backend.JobSpec, after []string) (*backend.Handle, error) {
	req := submitRequest{
		Name:      spec.Name,
		Handler:   spec.Handler,
		Args:      spec.Args,
		Kwargs:    spec.Kwargs,
		Params:    spec.Params,
		DependsOn: after,
	}

	var out submitResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/jobs")
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("backend rejected job %q: %s", spec.Name, res.Status())
	}
	if out.ID == "" {
		return nil, fmt.Errorf("backend returned no job id for %q", spec.Name)
	}

	return &backend.Handle{ID: out.ID, Status: out.Status}, nil
}

// Close releases the underlying HTTP client resources.
func (c *Client) Close() error {
	return c.http.Close()
}
