package app

import (
	"context"
	"io"

	"github.com/vk/gridflow/internal/parallelexecutor"
	"github.com/vk/gridflow/internal/workflow"
)

// Worker serves a single run for a parent executing with process isolation.
// The request is read from in, the response written to out and logs to logs.
func (a *App) Worker(ctx context.Context, in io.Reader, out, logs io.Writer) error {
	return parallelexecutor.ServeWorker(a.context(ctx), in, out, logs, a.loadWorkflow)
}

func (a *App) loadWorkflow(ctx context.Context, definition []string) (*workflow.Workflow, error) {
	grid, err := a.loader.Load(ctx, definition...)
	if err != nil {
		return nil, err
	}
	bp, err := grid.Build(ctx, a.registry)
	if err != nil {
		return nil, err
	}
	return bp.Workflow, nil
}
