package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/hcladapter"
	"github.com/vk/gridflow/internal/model"
	"github.com/vk/gridflow/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	loader     *hcladapter.Loader
	metrics    *prometheus.Registry
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own logger and registry. Without modules the
// built-in ones are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "types", reg.Types())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		loader:   hcladapter.NewLoader(),
		metrics:  prometheus.NewRegistry(),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// load reads the definition files and the optional args file and builds the
// workflow with its executions.
func (a *App) load(ctx context.Context, paths []string) (*model.Blueprint, error) {
	logger := ctxlog.FromContext(ctx)

	grid, err := a.loader.Load(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow definition: %w", err)
	}
	if a.config.ArgsFile != "" {
		extra, err := LoadArgsFile(a.config.ArgsFile)
		if err != nil {
			return nil, err
		}
		grid.Executions = append(grid.Executions, extra...)
		logger.Debug("Executions loaded from args file.", "path", a.config.ArgsFile, "count", len(extra))
	}

	bp, err := grid.Build(ctx, a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow: %w", err)
	}
	logger.Info("Workflow loaded.", "nodes", bp.Workflow.Len(), "executions", len(bp.Executions))
	return bp, nil
}
