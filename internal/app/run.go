package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/gridflow/internal/parallelexecutor"
	"github.com/vk/gridflow/internal/sink"
)

// Run loads the workflow, executes every execution and prints the report.
// Failed runs are part of the report, not an error.
func (a *App) Run(ctx context.Context) (*parallelexecutor.Report, error) {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	a.startHealthcheckServer(a.config.HealthcheckPort)
	defer a.closeHealthcheckServer()

	bp, err := a.load(ctx, a.config.Paths)
	if err != nil {
		return nil, err
	}

	opts, closeEvents, err := a.executorOptions()
	if err != nil {
		return nil, err
	}
	defer closeEvents()
	opts = append(opts, parallelexecutor.WithNames(bp.Names))

	exec, err := parallelexecutor.New(bp.Workflow, bp.Executions, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}
	report, err := exec.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}

	a.printReport(report)
	a.logger.Debug("App.Run method finished.")
	return report, nil
}

func (a *App) executorOptions() ([]parallelexecutor.Option, func(), error) {
	level, err := parseLevel(a.config.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	opts := []parallelexecutor.Option{
		parallelexecutor.WithWorkers(a.config.Workers),
		parallelexecutor.WithLogsDir(a.config.LogsDir),
		parallelexecutor.WithLogFilter(level),
		parallelexecutor.WithMetrics(a.metrics),
	}
	if a.config.FailFast {
		opts = append(opts, parallelexecutor.WithFailFast())
	}
	if a.config.Isolation == parallelexecutor.IsolationProcess.String() {
		opts = append(opts,
			parallelexecutor.WithIsolation(parallelexecutor.IsolationProcess),
			parallelexecutor.WithProcessCommand(parallelexecutor.ProcessCommand{Definition: a.config.Paths}),
		)
	}

	if a.config.EventsPath == "" {
		return opts, func() {}, nil
	}
	f, err := os.Create(a.config.EventsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create events file: %w", err)
	}
	opts = append(opts, parallelexecutor.WithSink(sink.NewJSONLines(f)))
	return opts, func() {
		if err := f.Close(); err != nil {
			a.logger.Warn("Failed to close events file.", "path", a.config.EventsPath, "error", err)
		}
	}, nil
}
