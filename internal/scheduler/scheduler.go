package scheduler

import (
	"context"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
)

// Sequential walks a precomputed order, one node at a time.
type Sequential struct {
	graph graph.Graph
	order []nodeid.UID
	pos   int
}

// New creates a scheduler over order, which must be topological.
func New(g graph.Graph, order []nodeid.UID) Scheduler {
	return &Sequential{graph: g, order: order}
}

func (s *Sequential) Next(ctx context.Context) (*node.Node, bool) {
	if s.pos >= len(s.order) {
		return nil, false
	}
	id := s.order[s.pos]
	n, ok := s.graph.Node(ctx, id)
	if !ok {
		ctxlog.FromContext(ctx).Error("Scheduled node missing from topology.", "node", id)
		return nil, false
	}

	deps, err := s.graph.DependenciesOf(ctx, id)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to resolve dependencies.", "node", id, "error", err)
		return nil, false
	}
	for _, dep := range deps {
		if status, _ := s.graph.NodeStatus(ctx, dep.UID()); status != node.StatusCompleted {
			ctxlog.FromContext(ctx).Debug("Dependency not completed, stopping.", "node", id, "dependency", dep.UID(), "status", status)
			return nil, false
		}
	}

	s.pos++
	return n, true
}

func (s *Sequential) Remaining() []nodeid.UID {
	return append([]nodeid.UID(nil), s.order[s.pos:]...)
}
