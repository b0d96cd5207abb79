package graph

import (
	"context"
	"time"

	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
)

// Graph is the run-scoped view of a workflow DAG, combining static topology
// queries with dynamic state updates.
//
// Implementations must be safe for concurrent use.
type Graph interface {
	// Node retrieves a node by UID.
	Node(ctx context.Context, id nodeid.UID) (*node.Node, bool)

	// Name returns the unique display name of a node.
	Name(ctx context.Context, id nodeid.UID) string

	// AllNodes returns all nodes in insertion order.
	AllNodes(ctx context.Context) []*node.Node

	// DependenciesOf returns the full dependency nodes in input-slot order.
	DependenciesOf(ctx context.Context, id nodeid.UID) ([]*node.Node, error)

	// ConsumerCount returns how many input slots across the workflow read
	// the output of id.
	ConsumerCount(ctx context.Context, id nodeid.UID) (int, error)

	// NodeStatus returns the current status, StatusPending if none was set.
	NodeStatus(ctx context.Context, id nodeid.UID) (node.Status, bool)

	// Output returns the value a completed node produced.
	Output(ctx context.Context, id nodeid.UID) (any, bool)

	// Stats returns the execution stats of a node that started.
	Stats(ctx context.Context, id nodeid.UID) (node.Stats, bool)

	// MarkRunning transitions Pending → Running and opens the node's stats.
	MarkRunning(ctx context.Context, id nodeid.UID, start time.Time) error

	// MarkCompleted transitions Running → Completed and stores the output.
	MarkCompleted(ctx context.Context, id nodeid.UID, output any, end time.Time) error

	// MarkFailed transitions a node to Failed and closes its stats with the
	// error. A node that never started gets zero-length stats.
	MarkFailed(ctx context.Context, id nodeid.UID, nodeErr *flowerr.ExecutionError, end time.Time) error

	// MarkSkipped transitions Pending → Skipped. Skipped nodes have no stats.
	MarkSkipped(ctx context.Context, id nodeid.UID) error
}
