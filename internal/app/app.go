// Package app wires the plan loader, estimator, resolver and local executor
// into one runnable application behind a validated Config.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/planit-dev/planit/internal/ctxlog"
	"github.com/planit-dev/planit/internal/estimate"
	"github.com/planit-dev/planit/internal/hclplan"
	"github.com/planit-dev/planit/internal/localexec"
	"github.com/planit-dev/planit/internal/registry"
	"github.com/planit-dev/planit/internal/resolver"
	"github.com/planit-dev/planit/internal/restbackend"
)

// App encapsulates the application's dependencies, configuration and
// lifecycle.
type App struct {
	outW     io.Writer
	logW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
}

// NewApp constructs the application with its own isolated logger and handler
// registry. Plan descriptions go to outW; logs go to logW. When no modules
// are given, the built-in core modules are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All handler modules registered.", "count", len(modules))

	return &App{
		outW:     outW,
		logW:     logW,
		logger:   logger,
		registry: reg,
	}
}

// Registry returns the application's handler registry, so embedders can add
// handlers before Run.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run loads and describes the plan, then submits it remotely and/or runs it
// locally depending on the configuration.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	p, err := hclplan.Load(ctx, cfg.PlanPath)
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}

	if err := estimate.Render(a.outW, p); err != nil {
		return err
	}

	if cfg.SubmitURL != "" {
		client := restbackend.New(cfg.SubmitURL)
		defer client.Close()

		handles, err := resolver.New(client).Submit(ctx, p)
		if err != nil {
			return err
		}
		a.logger.Info("Plan submitted.", "plan", p.Name(), "jobs", len(handles))
	}

	if cfg.RunLocal {
		exec := localexec.New(
			localexec.WithHandlers(a.registry),
			localexec.WithObserver(a.logEvent),
		)
		return exec.Run(ctx, p)
	}

	return nil
}

// logEvent reports step status transitions through the application logger.
func (a *App) logEvent(ev localexec.Event) {
	if ev.Err != nil {
		a.logger.Warn("Step status changed.",
			"step", ev.Step, "stepID", ev.StepID, "status", ev.Status.String(), "error", ev.Err)
		return
	}
	a.logger.Info("Step status changed.",
		"step", ev.Step, "stepID", ev.StepID, "status", ev.Status.String())
}
