// Package registry maps handler names to runnable Go functions, so plans
// loaded from configuration files can be executed locally without mutating
// the tree.
package registry

import (
	"fmt"
	"sync"

	"github.com/planit-dev/planit/internal/plan"
)

// Module is the interface a bundle of handlers implements to be registered
// with an application's registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered handlers for a single application instance.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]plan.TaskFunc
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{handlers: make(map[string]plan.TaskFunc)}
}

// Register binds a handler name to a function. Registering a nil function or
// a name that is already taken is an error.
func (r *Registry) Register(name string, fn plan.TaskFunc) error {
	if fn == nil {
		return fmt.Errorf("handler %q: function must not be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("handler %q already registered", name)
	}
	r.handlers[name] = fn
	return nil
}

// MustRegister is Register for module init paths, where a duplicate name is
// a programmer error.
func (r *Registry) MustRegister(name string, fn plan.TaskFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the function bound to a handler name.
func (r *Registry) Lookup(name string) (plan.TaskFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.handlers[name]
	return fn, ok
}
