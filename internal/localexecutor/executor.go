// Package localexecutor provides a concrete, in-process implementation of the
// executor.Executor interface. Nodes run one at a time on the calling
// goroutine, in the order handed out by the scheduler.
package localexecutor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/vk/gridflow/internal/builder"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/executor"
	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/scheduler"
	"github.com/vk/gridflow/internal/task"
)

// Executor implements the executor.Executor interface for local execution.
type Executor struct {
	sched   scheduler.Scheduler
	graph   graph.Graph
	builder builder.Builder
	args    map[nodeid.UID]task.Args
	now     func() time.Time
}

// New creates a new local executor.
func New(
	sch scheduler.Scheduler,
	g graph.Graph,
	b builder.Builder,
	args map[nodeid.UID]task.Args,
) executor.Executor {
	return &Executor{
		sched:   sch,
		graph:   g,
		builder: b,
		args:    args,
		now:     time.Now,
	}
}

func (e *Executor) Execute(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Local executor started.")

	for {
		n, ok := e.sched.Next(ctx)
		if !ok {
			break
		}
		if err := e.runNode(ctx, n); err != nil {
			if skipErr := e.skipRemaining(ctx); skipErr != nil {
				return errors.Join(err, skipErr)
			}
			return err
		}
	}

	logger.Debug("Local executor finished.")
	return nil
}

// runNode executes a single node. A returned *flowerr.ExecutionError has
// already been recorded in the graph.
func (e *Executor) runNode(ctx context.Context, n *node.Node) error {
	name := e.graph.Name(ctx, n.UID())
	logger := ctxlog.FromContext(ctx).With("node", name, "uid", n.UID())

	fail := func(cause error) error {
		execErr := &flowerr.ExecutionError{NodeUID: n.UID(), NodeName: name, Cause: cause}
		if err := e.graph.MarkFailed(ctx, n.UID(), execErr, e.now()); err != nil {
			return errors.Join(execErr, err)
		}
		logger.Error("❌ Node failed", "error", cause)
		return execErr
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	inv, err := e.builder.Build(ctx, e.graph, n, e.args[n.UID()])
	if err != nil {
		return fail(fmt.Errorf("preparing inputs: %w", err))
	}

	logger.Info("▶️ Running node")
	if err := e.graph.MarkRunning(ctx, n.UID(), e.now()); err != nil {
		return err
	}

	nodeCtx := ctxlog.WithLogger(ctx, logger)
	out, err := executeTask(nodeCtx, n.Task(), inv)
	if err != nil {
		return fail(err)
	}

	if err := e.graph.MarkCompleted(ctx, n.UID(), out, e.now()); err != nil {
		return err
	}
	logger.Info("✅ Node completed")
	return nil
}

// executeTask runs t and turns a panic into an error of the node.
func executeTask(ctx context.Context, t task.Task, inv *builder.Invocation) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("task panicked: %v\n%s", r, debug.Stack())
		}
	}()
	return t.Execute(ctx, inv.Inputs, inv.Args)
}

func (e *Executor) skipRemaining(ctx context.Context) error {
	for _, id := range e.sched.Remaining() {
		if status, _ := e.graph.NodeStatus(ctx, id); status != node.StatusPending {
			continue
		}
		if err := e.graph.MarkSkipped(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
