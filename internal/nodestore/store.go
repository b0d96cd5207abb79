// Package nodestore defines the interface for storing and retrieving the
// mutable execution state of nodes during one workflow run.
//
// # Why Node Store Exists
//
// A workflow is immutable and may be executed many times, in parallel. All
// state produced by a run (statuses, outputs, per-node stats) therefore lives
// in a store created fresh for that run and discarded afterwards. Nothing a
// run writes can be observed by another run.
//
// # State Transitions
//
// Nodes follow this lifecycle:
//
//	Pending → Running → Completed (with output) OR Failed (with stats error)
//	Pending → Skipped (the run halted first)
package nodestore

import (
	"context"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
)

// Store manages the run-scoped state of nodes.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// SetStatus updates the execution status of a node.
	SetStatus(ctx context.Context, id nodeid.UID, status node.Status) error

	// GetStatus returns StatusPending for nodes that have no status yet.
	GetStatus(ctx context.Context, id nodeid.UID) (node.Status, error)

	// SetOutput records the value returned by a node's task.
	SetOutput(ctx context.Context, id nodeid.UID, output any) error

	// GetOutput returns the recorded output and whether one exists. A task
	// that returned nil still has an output.
	GetOutput(ctx context.Context, id nodeid.UID) (any, bool, error)

	// SetStats records the timing (and failure) of a node execution.
	SetStats(ctx context.Context, id nodeid.UID, stats node.Stats) error

	// GetStats returns the stats of a node that started executing.
	GetStats(ctx context.Context, id nodeid.UID) (node.Stats, bool, error)
}
