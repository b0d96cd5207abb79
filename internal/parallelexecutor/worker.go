package parallelexecutor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/task"
	"github.com/vk/gridflow/internal/workflow"
)

// WorkerRequest is sent by the parent to a worker process on stdin.
type WorkerRequest struct {
	// Definition lists the workflow definition files to load.
	Definition []string `json:"definition"`
	RunIndex   int      `json:"run_index"`
	// Arguments are keyed by node name; UIDs do not survive the process
	// boundary.
	Arguments map[string]task.Args `json:"arguments"`
	LogLevel  string               `json:"log_level"`
}

// WorkerResponse is written by a worker process to stdout.
type WorkerResponse struct {
	Results *workflow.Results `json:"results,omitempty"`
	// Error is set when the run could not execute at all.
	Error string `json:"error,omitempty"`
}

// Loader builds the workflow described by a set of definition files.
type Loader func(ctx context.Context, definition []string) (*workflow.Workflow, error)

// ServeWorker handles a single worker request. It reads the request from in,
// executes the run, writes the response to out and logs JSON records to logs.
// Output values cross the boundary as JSON, so numbers arrive as float64.
func ServeWorker(ctx context.Context, in io.Reader, out, logs io.Writer, load Loader) error {
	var req WorkerRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decoding worker request: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(req.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: level}))
	ctx = ctxlog.WithLogger(ctx, logger)

	resp := serve(ctx, req, load)
	if err := json.NewEncoder(out).Encode(resp); err != nil {
		return fmt.Errorf("encoding worker response: %w", err)
	}
	return nil
}

func serve(ctx context.Context, req WorkerRequest, load Loader) WorkerResponse {
	logger := ctxlog.FromContext(ctx)

	wf, err := load(ctx, req.Definition)
	if err != nil {
		return WorkerResponse{Error: fmt.Sprintf("loading workflow: %v", err)}
	}
	args, err := wf.ArgumentsByName(req.Arguments)
	if err != nil {
		return WorkerResponse{Error: fmt.Sprintf("binding arguments: %v", err)}
	}

	logger.Debug("Worker executing run.", "run_index", req.RunIndex, "nodes", wf.Len())
	res, err := wf.Execute(ctx, args)
	if err != nil {
		return WorkerResponse{Error: err.Error()}
	}
	return WorkerResponse{Results: res}
}
