package app

import (
	"context"

	"github.com/planit-dev/planit/internal/registry"
)

// noopModule provides the built-in "noop" handler, which makes dry local
// runs of file-loaded plans possible without writing any Go code.
type noopModule struct{}

func (noopModule) Register(r *registry.Registry) {
	r.MustRegister("noop", func(ctx context.Context) error { return nil })
}

// coreModules are registered when the caller supplies no modules of its own.
var coreModules = []registry.Module{noopModule{}}
