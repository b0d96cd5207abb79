// Package topologystore defines the interface for storing and retrieving the
// static structure of a workflow graph.
//
// # Why Topology Store Exists
//
// The topology store isolates the immutable DAG structure (nodes, their
// display names and dependency edges) from the mutable per-run state managed
// by nodestore. A workflow builds its topology once; every run then reads it
// concurrently without locks contending with state writes.
//
// # Lifecycle
//
//  1. Created once per workflow
//  2. Populated while the workflow validates its nodes
//  3. Read-only afterwards, shared by every run of the workflow
package topologystore

import (
	"context"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
)

// Store manages the static topology of a workflow DAG.
//
// Implementations must be safe for concurrent reads once population is
// complete.
type Store interface {
	// AddNode registers a node under its unique display name. A second node
	// with the same UID is rejected with an error wrapping flowerr.ErrDuplicate.
	AddNode(ctx context.Context, n *node.Node, name string) error

	// AddDependency records that `to` consumes the output of `from`. Both
	// nodes must already exist; a missing `from` is reported with an error
	// wrapping flowerr.ErrDangling. Repeated edges are kept, one per input slot.
	AddDependency(ctx context.Context, from, to nodeid.UID) error

	// GetNode retrieves a single node by UID.
	GetNode(ctx context.Context, id nodeid.UID) (*node.Node, bool)

	// NameOf returns the display name assigned to a node.
	NameOf(ctx context.Context, id nodeid.UID) (string, bool)

	// IndexOf returns the insertion position of a node.
	IndexOf(ctx context.Context, id nodeid.UID) (int, bool)

	// AllNodes returns every node in insertion order.
	AllNodes(ctx context.Context) []*node.Node

	// DependenciesOf returns the UIDs `id` consumes, in input-slot order.
	DependenciesOf(ctx context.Context, id nodeid.UID) ([]nodeid.UID, error)

	// DependentsOf returns the UIDs that consume `id`, one entry per slot.
	DependentsOf(ctx context.Context, id nodeid.UID) ([]nodeid.UID, error)

	// Adjacency returns, for every node by insertion index, the indices of
	// its dependencies. It is the input to sorting and cycle detection.
	Adjacency(ctx context.Context) [][]int
}
