// Package session defines the interfaces for creating and managing the
// resources of a single workflow run. Each run gets its own session, and
// with it its own node state, so runs never observe each other.
package session

import (
	"context"

	"github.com/vk/gridflow/internal/executor"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/task"
	"github.com/vk/gridflow/internal/topologystore"
)

// Plan is what a session needs to know about the workflow it runs.
type Plan struct {
	// Topology is the workflow's shared, read-only structure.
	Topology topologystore.Store
	// Order is the topological execution order.
	Order []nodeid.UID
	// Args holds this run's argument bags by node UID.
	Args map[nodeid.UID]task.Args
}

// SessionFactory creates an execution Session. Different implementations can
// support various backends, such as local or distributed execution.
type SessionFactory interface {
	NewSession(ctx context.Context, plan Plan) (Session, error)
}

// Session represents a single execution run and manages its lifecycle.
type Session interface {
	GetExecutor() (executor.Executor, error)
	// Graph exposes the run-scoped graph for result collection.
	Graph() graph.Graph
	// Close releases any resources held by the session. It accepts a context
	// to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
