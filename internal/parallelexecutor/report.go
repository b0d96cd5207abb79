package parallelexecutor

import (
	"time"

	"github.com/samber/lo"
	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/workflow"
)

// RunState is the lifecycle state of a single run.
type RunState string

const (
	RunPending   RunState = "pending"
	RunRunning   RunState = "running"
	RunSucceeded RunState = "succeeded"
	RunFailed    RunState = "failed"
	// RunCancelled marks a run that was never started.
	RunCancelled RunState = "cancelled"
)

// RunResult is the outcome of one argument set.
type RunResult struct {
	Index int      `json:"index"`
	Name  string   `json:"name"`
	State RunState `json:"state"`
	// Workflow holds the results of the graph execution. It is nil when the
	// run never started or failed outside the graph.
	Workflow *workflow.Results `json:"workflow,omitempty"`
	// Err is set when the run failed outside the graph.
	Err       *flowerr.RunError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	LogPath   string            `json:"log_path,omitempty"`
}

// Failed reports whether the run ended in a failure of any kind.
func (r RunResult) Failed() bool {
	return r.State == RunFailed
}

// Duration is the wall time of the run.
func (r RunResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Report aggregates all runs of an Executor.
type Report struct {
	Runs      []RunResult `json:"runs"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Cancelled int         `json:"cancelled"`
}

func newReport(runs []RunResult, start, end time.Time) *Report {
	counts := lo.CountValuesBy(runs, func(r RunResult) RunState { return r.State })
	return &Report{
		Runs:      runs,
		StartTime: start,
		EndTime:   end,
		Total:     len(runs),
		Succeeded: counts[RunSucceeded],
		Failed:    counts[RunFailed],
		Cancelled: counts[RunCancelled],
	}
}

// SuccessfulRuns returns the indices of runs that succeeded.
func (r *Report) SuccessfulRuns() []int {
	return r.indicesIn(RunSucceeded)
}

// FailedRuns returns the indices of runs that failed.
func (r *Report) FailedRuns() []int {
	return r.indicesIn(RunFailed)
}

// Results returns the workflow results of every run, nil where a run has none.
func (r *Report) Results() []*workflow.Results {
	return lo.Map(r.Runs, func(run RunResult, _ int) *workflow.Results {
		return run.Workflow
	})
}

// LogPaths returns the log file of every run that saved one.
func (r *Report) LogPaths() []string {
	return lo.FilterMap(r.Runs, func(run RunResult, _ int) (string, bool) {
		return run.LogPath, run.LogPath != ""
	})
}

// Duration is the wall time of the whole execution.
func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

func (r *Report) indicesIn(state RunState) []int {
	return lo.FilterMap(r.Runs, func(run RunResult, _ int) (int, bool) {
		return run.Index, run.State == state
	})
}
