package parallelexecutor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"

	"github.com/samber/lo"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/workflow"
)

// processDispatcher executes every run in a fresh worker process.
//
// The worker rebuilds the workflow from its definition, so node UIDs differ
// between parent and child. Results are mapped back by node name, which is
// deterministic for a given definition.
type processDispatcher struct {
	wf  *workflow.Workflow
	cmd ProcessCommand
}

func newProcessDispatcher(wf *workflow.Workflow, cmd ProcessCommand) (*processDispatcher, error) {
	if cmd.Path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locating worker executable: %w", err)
		}
		cmd.Path = exe
	}
	if cmd.Args == nil {
		cmd.Args = []string{"worker"}
	}
	return &processDispatcher{wf: wf, cmd: cmd}, nil
}

func (d *processDispatcher) Dispatch(ctx context.Context, index int, args workflow.Arguments) (*workflow.Results, error) {
	logger := ctxlog.FromContext(ctx)

	named, err := d.wf.NamedArguments(args)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(WorkerRequest{
		Definition: d.cmd.Definition,
		RunIndex:   index,
		Arguments:  named,
		LogLevel:   lowestEnabledLevel(ctx, logger).String(),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding worker request: %w", err)
	}

	cmd := exec.CommandContext(ctx, d.cmd.Path, d.cmd.Args...)
	cmd.Env = append(os.Environ(), d.cmd.Env...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("connecting worker stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting worker process: %w", err)
	}
	logger.Debug("Worker process started.", "pid", cmd.Process.Pid)

	// stderr must be drained before Wait closes it.
	relayLogs(ctx, logger, stderr)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("worker process: %w", err)
	}

	var resp WorkerResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decoding worker response: %w", err)
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	if resp.Results == nil {
		return nil, errors.New("worker returned no results")
	}
	return d.remap(resp.Results)
}

// remap rewrites the node UIDs of a worker's results to the parent's UIDs.
func (d *processDispatcher) remap(res *workflow.Results) (*workflow.Results, error) {
	out := &workflow.Results{
		Outputs:   res.Outputs,
		StartTime: res.StartTime,
		EndTime:   res.EndTime,
		Stats:     make(map[nodeid.UID]node.Stats, len(res.Stats)),
	}
	if out.Outputs == nil {
		out.Outputs = make(map[string]any)
	}

	for childUID, s := range res.Stats {
		n, ok := d.wf.NodeByName(s.NodeName)
		if !ok {
			return nil, fmt.Errorf("worker reported unknown node %q", s.NodeName)
		}
		if childUID == res.ErrorNodeUID {
			out.ErrorNodeUID = n.UID()
		}
		s.NodeUID = n.UID()
		if s.Err != nil {
			e := *s.Err
			e.NodeUID = n.UID()
			s.Err = &e
		}
		out.Stats[n.UID()] = s
	}

	if res.ErrorNodeUID != "" && out.ErrorNodeUID == "" {
		return nil, fmt.Errorf("worker reported a failure at node %s without stats", res.ErrorNodeUID)
	}
	return out, nil
}

// relayLogs re-emits the JSON log records a worker writes to stderr through
// the run's logger. Lines that are not JSON records are logged verbatim.
func relayLogs(ctx context.Context, logger *slog.Logger, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		var rec map[string]any
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Info(string(line), "source", "worker")
			continue
		}

		level := slog.LevelInfo
		if s, ok := rec[slog.LevelKey].(string); ok {
			_ = level.UnmarshalText([]byte(s))
		}
		msg, _ := rec[slog.MessageKey].(string)
		delete(rec, slog.TimeKey)
		delete(rec, slog.LevelKey)
		delete(rec, slog.MessageKey)

		keys := lo.Keys(rec)
		slices.Sort(keys)
		attrs := make([]any, 0, 2*len(keys))
		for _, k := range keys {
			attrs = append(attrs, k, rec[k])
		}
		logger.Log(ctx, level, msg, attrs...)
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("Failed to read worker logs.", "error", err)
	}
}

func lowestEnabledLevel(ctx context.Context, logger *slog.Logger) slog.Level {
	for _, l := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if logger.Enabled(ctx, l) {
			return l
		}
	}
	return slog.LevelError
}
