package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/nodestore"
	"github.com/vk/gridflow/internal/topologystore"
)

// Manager composes a topology store and a node store into a Graph.
type Manager struct {
	topology  topologystore.Store
	nodeState nodestore.Store
}

// New creates a new graph manager.
func New(ts topologystore.Store, ns nodestore.Store) Graph {
	return &Manager{topology: ts, nodeState: ns}
}

func (m *Manager) Node(ctx context.Context, id nodeid.UID) (*node.Node, bool) {
	return m.topology.GetNode(ctx, id)
}

func (m *Manager) Name(ctx context.Context, id nodeid.UID) string {
	if name, ok := m.topology.NameOf(ctx, id); ok {
		return name
	}
	return id.String()
}

func (m *Manager) AllNodes(ctx context.Context) []*node.Node {
	return m.topology.AllNodes(ctx)
}

func (m *Manager) DependenciesOf(ctx context.Context, id nodeid.UID) ([]*node.Node, error) {
	uids, err := m.topology.DependenciesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	deps := make([]*node.Node, 0, len(uids))
	for _, uid := range uids {
		n, ok := m.topology.GetNode(ctx, uid)
		if !ok {
			return nil, fmt.Errorf("internal inconsistency: dependency %q of %q not in topology", uid, id)
		}
		deps = append(deps, n)
	}
	return deps, nil
}

func (m *Manager) ConsumerCount(ctx context.Context, id nodeid.UID) (int, error) {
	dependents, err := m.topology.DependentsOf(ctx, id)
	if err != nil {
		return 0, err
	}
	return len(dependents), nil
}

func (m *Manager) NodeStatus(ctx context.Context, id nodeid.UID) (node.Status, bool) {
	if _, ok := m.topology.GetNode(ctx, id); !ok {
		return node.StatusPending, false
	}
	status, err := m.nodeState.GetStatus(ctx, id)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to read node status.", "node", id, "error", err)
		return node.StatusPending, false
	}
	return status, true
}

func (m *Manager) Output(ctx context.Context, id nodeid.UID) (any, bool) {
	out, ok, err := m.nodeState.GetOutput(ctx, id)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to read node output.", "node", id, "error", err)
		return nil, false
	}
	return out, ok
}

func (m *Manager) Stats(ctx context.Context, id nodeid.UID) (node.Stats, bool) {
	stats, ok, err := m.nodeState.GetStats(ctx, id)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to read node stats.", "node", id, "error", err)
		return node.Stats{}, false
	}
	return stats, ok
}

func (m *Manager) MarkRunning(ctx context.Context, id nodeid.UID, start time.Time) error {
	if err := m.nodeState.SetStatus(ctx, id, node.StatusRunning); err != nil {
		return err
	}
	return m.nodeState.SetStats(ctx, id, node.Stats{
		NodeUID:   id,
		NodeName:  m.Name(ctx, id),
		StartTime: start,
	})
}

func (m *Manager) MarkCompleted(ctx context.Context, id nodeid.UID, output any, end time.Time) error {
	if err := m.nodeState.SetOutput(ctx, id, output); err != nil {
		return err
	}
	if err := m.closeStats(ctx, id, nil, end); err != nil {
		return err
	}
	return m.nodeState.SetStatus(ctx, id, node.StatusCompleted)
}

func (m *Manager) MarkFailed(ctx context.Context, id nodeid.UID, nodeErr *flowerr.ExecutionError, end time.Time) error {
	if err := m.closeStats(ctx, id, nodeErr, end); err != nil {
		return err
	}
	return m.nodeState.SetStatus(ctx, id, node.StatusFailed)
}

func (m *Manager) MarkSkipped(ctx context.Context, id nodeid.UID) error {
	return m.nodeState.SetStatus(ctx, id, node.StatusSkipped)
}

func (m *Manager) closeStats(ctx context.Context, id nodeid.UID, nodeErr *flowerr.ExecutionError, end time.Time) error {
	stats, ok, err := m.nodeState.GetStats(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		stats = node.Stats{NodeUID: id, NodeName: m.Name(ctx, id), StartTime: end}
	}
	stats.EndTime = end
	stats.Err = nodeErr
	return m.nodeState.SetStats(ctx, id, stats)
}
