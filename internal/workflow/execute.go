package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/session"
	"github.com/vk/gridflow/internal/task"
)

// Execute runs every node once, in order, and returns the run's results.
//
// A failing task halts the run: the returned Results carry the failing
// node's UID and the stats of every node that started. Task failures are
// reported through Results only; the error return is reserved for invalid
// arguments and infrastructure failures.
func (w *Workflow) Execute(ctx context.Context, args Arguments) (*Results, error) {
	bound, err := w.bindArguments(args)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)
	res := &Results{
		Outputs:   make(map[string]any),
		Stats:     make(map[nodeid.UID]node.Stats),
		StartTime: time.Now(),
	}

	sess, err := w.sessions.NewSession(ctx, session.Plan{
		Topology: w.topology,
		Order:    w.Order(),
		Args:     bound,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	defer func() {
		if err := sess.Close(ctx); err != nil {
			logger.Warn("Failed to close session.", "error", err)
		}
	}()

	exec, err := sess.GetExecutor()
	if err != nil {
		return nil, fmt.Errorf("creating executor: %w", err)
	}

	logger.Debug("Workflow run started.", "nodes", len(w.order))
	runErr := exec.Execute(ctx)
	res.EndTime = time.Now()

	var execErr *flowerr.ExecutionError
	switch {
	case runErr == nil:
	case errors.As(runErr, &execErr):
		res.ErrorNodeUID = execErr.NodeUID
	default:
		return nil, runErr
	}

	g := sess.Graph()
	for _, n := range w.order {
		if stats, ok := g.Stats(ctx, n.UID()); ok {
			res.Stats[n.UID()] = stats
		}
		out, isOutput := n.Task().(task.Outputter)
		if !isOutput {
			continue
		}
		if status, _ := g.NodeStatus(ctx, n.UID()); status == node.StatusCompleted {
			v, _ := g.Output(ctx, n.UID())
			res.Outputs[out.OutputName()] = v
		}
	}

	if res.Failed() {
		logger.Warn("Workflow run failed.", "node", execErr.NodeName, "error", execErr.Cause, "duration", res.Duration())
	} else {
		logger.Debug("Workflow run finished.", "duration", res.Duration())
	}
	return res, nil
}
