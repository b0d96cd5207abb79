package parallelexecutor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/metrics"
	"github.com/vk/gridflow/internal/sink"
	"github.com/vk/gridflow/internal/workflow"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyRun is returned by a second call to Run.
var ErrAlreadyRun = errors.New("executor has already run")

// State is the lifecycle state of an Executor.
type State int32

const (
	StateIdle State = iota
	StateDispatching
	StateCollecting
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateCollecting:
		return "collecting"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Executor runs a workflow once per argument set.
type Executor struct {
	wf       *workflow.Workflow
	argSets  []workflow.Arguments
	names    []string
	cfg      config
	dispatch dispatcher
	sink     sink.Sink

	state   atomic.Int32
	tripped atomic.Bool
	mu      sync.Mutex
	runs    []RunResult
}

// New validates the configuration and returns an idle Executor.
func New(wf *workflow.Workflow, argSets []workflow.Arguments, opts ...Option) (*Executor, error) {
	if wf == nil {
		return nil, errors.New("workflow is nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.workers <= 0 {
		cfg.workers = 1
	}

	names := cfg.names
	if names == nil {
		names = make([]string, len(argSets))
		for i := range names {
			names[i] = strconv.Itoa(i)
		}
	}
	if len(names) != len(argSets) {
		return nil, fmt.Errorf("got %d run names for %d argument sets", len(names), len(argSets))
	}
	if err := checkRunNames(names); err != nil {
		return nil, err
	}

	e := &Executor{
		wf:      wf,
		argSets: argSets,
		names:   names,
		cfg:     cfg,
	}

	sinks := cfg.sinks
	if cfg.registerer != nil {
		collector, err := metrics.New(cfg.registerer)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, collector)
	}
	e.sink = sinks

	switch cfg.isolation {
	case IsolationGoroutine:
		e.dispatch = &goroutineDispatcher{wf: wf}
	case IsolationProcess:
		pd, err := newProcessDispatcher(wf, cfg.command)
		if err != nil {
			return nil, err
		}
		e.dispatch = pd
	default:
		return nil, fmt.Errorf("unknown isolation mode %d", cfg.isolation)
	}
	return e, nil
}

// checkRunNames rejects names that repeat or that share a log file.
func checkRunNames(names []string) error {
	seen := make(map[string]string, len(names))
	for _, name := range names {
		file := LogFileName(name)
		if prev, ok := seen[file]; ok {
			if prev == name {
				return fmt.Errorf("duplicate run name %q", name)
			}
			return fmt.Errorf("run names %q and %q share the log file %s", prev, name, file)
		}
		seen[file] = name
	}
	return nil
}

// State returns the current lifecycle state.
func (e *Executor) State() State {
	return State(e.state.Load())
}

// Run executes every argument set and returns the report. Failed runs are
// part of the report; the error return is reserved for misuse.
//
// Cancelling ctx stops dispatching: runs not started yet are reported as
// cancelled, runs already executing finish undisturbed.
func (e *Executor) Run(ctx context.Context) (*Report, error) {
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateDispatching)) {
		return nil, ErrAlreadyRun
	}

	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	runs := make([]RunResult, len(e.argSets))
	for i := range runs {
		runs[i] = RunResult{Index: i, Name: e.names[i], State: RunPending}
	}
	e.mu.Lock()
	e.runs = runs
	e.mu.Unlock()

	logger.Info("🚀 Starting runs.", "runs", len(e.argSets), "workers", e.cfg.workers, "isolation", e.cfg.isolation)

	g := new(errgroup.Group)
	g.SetLimit(e.cfg.workers)
	for i := range e.argSets {
		if e.stopDispatch(ctx) {
			break
		}
		g.Go(func() error {
			e.runOne(ctx, i)
			return nil
		})
	}

	e.state.Store(int32(StateCollecting))
	_ = g.Wait()

	for i := range e.runs {
		if e.runs[i].State == RunPending {
			e.skip(ctx, i)
		}
	}

	report := newReport(e.runs, start, time.Now())
	e.state.Store(int32(StateFinalized))

	logger.Info("🏁 Runs finished.",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"cancelled", report.Cancelled,
		"duration", report.Duration(),
	)
	return report, nil
}

// Runs returns a snapshot of every run slot. It is empty before Run.
func (e *Executor) Runs() []RunResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.runs)
}

func (e *Executor) stopDispatch(ctx context.Context) bool {
	return ctx.Err() != nil || (e.cfg.failFast && e.tripped.Load())
}

// runOne executes run i. Only the slot of run i is written.
func (e *Executor) runOne(ctx context.Context, i int) {
	if e.stopDispatch(ctx) {
		e.skip(ctx, i)
		return
	}

	name := e.names[i]
	rl, err := openRunLog(ctxlog.FromContext(ctx), e.cfg.logsDir, name, i, e.cfg.logLevel)
	if err != nil {
		now := time.Now()
		e.finish(ctx, RunResult{
			Index: i, Name: name, State: RunFailed, StartTime: now, EndTime: now,
			Err: &flowerr.RunError{Index: i, Name: name, Cause: err},
		})
		return
	}
	defer func() {
		if err := rl.Close(); err != nil {
			ctxlog.FromContext(ctx).Warn("Failed to close run log.", "run", name, "error", err)
		}
	}()

	// A started run is not interrupted by cancellation of the dispatch.
	runCtx := ctxlog.WithLogger(context.WithoutCancel(ctx), rl.logger)

	result := RunResult{Index: i, Name: name, State: RunRunning, StartTime: time.Now(), LogPath: rl.path}
	e.setRun(result)
	e.emit(ctx, sink.Event{Type: sink.EventRunStarted, Time: result.StartTime, RunIndex: i, RunName: name})
	rl.logger.Info("▶️ Run started.")

	res, err := dispatchRecovered(runCtx, e.dispatch, i, e.argSets[i].Clone())
	result.EndTime = time.Now()
	result.Workflow = res

	switch {
	case err != nil:
		result.State = RunFailed
		result.Err = &flowerr.RunError{Index: i, Name: name, Cause: err}
		rl.logger.Error("❌ Run failed outside the workflow.", "error", err)
	case res.Failed():
		result.State = RunFailed
		rl.logger.Error("❌ Run failed.", "node", res.Err().NodeName, "error", res.Err().Cause)
	default:
		result.State = RunSucceeded
		rl.logger.Info("✅ Run succeeded.", "duration", result.Duration())
	}
	e.finish(ctx, result)
}

func (e *Executor) finish(ctx context.Context, r RunResult) {
	if r.Failed() {
		e.tripped.Store(true)
	}
	e.setRun(r)

	ev := sink.Event{
		Type:     sink.EventRunFinished,
		Time:     r.EndTime,
		RunIndex: r.Index,
		RunName:  r.Name,
		State:    string(r.State),
		Results:  r.Workflow,
	}
	if r.Err != nil {
		ev.Err = r.Err.Error()
	}
	e.emit(ctx, ev)
}

func (e *Executor) skip(ctx context.Context, i int) {
	e.mu.Lock()
	e.runs[i].State = RunCancelled
	e.mu.Unlock()

	e.emit(ctx, sink.Event{
		Type:     sink.EventRunSkipped,
		Time:     time.Now(),
		RunIndex: i,
		RunName:  e.names[i],
		State:    string(RunCancelled),
	})
}

func (e *Executor) setRun(r RunResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.runs[r.Index] = r
}

func (e *Executor) emit(ctx context.Context, ev sink.Event) {
	if err := e.sink.Append(ctx, ev); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to record run event.", "event", ev.Type, "run", ev.RunName, "error", err)
	}
}
