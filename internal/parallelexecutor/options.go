package parallelexecutor

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/gridflow/internal/sink"
)

// Isolation selects where runs execute.
type Isolation int

const (
	// IsolationGoroutine executes runs on goroutines of this process.
	IsolationGoroutine Isolation = iota
	// IsolationProcess executes every run in its own worker process.
	IsolationProcess
)

func (i Isolation) String() string {
	switch i {
	case IsolationGoroutine:
		return "goroutine"
	case IsolationProcess:
		return "process"
	default:
		return "unknown"
	}
}

// ProcessCommand describes how to start a worker process.
type ProcessCommand struct {
	// Path of the executable. Empty means the running binary.
	Path string
	// Args passed to the executable. Nil means ["worker"].
	Args []string
	// Env is appended to the parent's environment.
	Env []string
	// Definition lists the workflow definition files the worker loads.
	Definition []string
}

// Option configures an Executor.
type Option func(*config)

type config struct {
	workers    int
	isolation  Isolation
	command    ProcessCommand
	failFast   bool
	names      []string
	logsDir    string
	logLevel   slog.Level
	sinks      sink.Multi
	registerer prometheus.Registerer
}

func defaultConfig() config {
	return config{
		workers:   1,
		isolation: IsolationGoroutine,
		logLevel:  slog.LevelInfo,
	}
}

// WithWorkers sets the number of runs executed at once. Values <= 0 are
// normalized to 1.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithIsolation selects goroutine or process isolation.
func WithIsolation(i Isolation) Option {
	return func(c *config) {
		c.isolation = i
	}
}

// WithProcessCommand sets the worker command used by IsolationProcess.
func WithProcessCommand(cmd ProcessCommand) Option {
	return func(c *config) {
		c.command = cmd
	}
}

// WithFailFast stops dispatching new runs after the first failed run. Runs
// already executing are allowed to finish.
func WithFailFast() Option {
	return func(c *config) {
		c.failFast = true
	}
}

// WithNames names the runs. The list must have one entry per argument set.
func WithNames(names []string) Option {
	return func(c *config) {
		c.names = names
	}
}

// WithLogsDir saves the log records of every run into its own file inside dir.
func WithLogsDir(dir string) Option {
	return func(c *config) {
		c.logsDir = dir
	}
}

// WithLogFilter sets the minimum level of records written to run log files.
func WithLogFilter(level slog.Level) Option {
	return func(c *config) {
		c.logLevel = level
	}
}

// WithSink attaches an event sink. It may be given more than once.
func WithSink(s sink.Sink) Option {
	return func(c *config) {
		if s != nil {
			c.sinks = append(c.sinks, s)
		}
	}
}

// WithMetrics publishes run metrics to reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = reg
	}
}
