// Package builder prepares a scheduled node for execution.
//
// The builder is the bridge between the graph and the task: it collects the
// outputs of the node's dependencies in input-slot order, applies the copy
// rule for outputs with several consumers and attaches the run's arguments.
// The result is an Invocation, which the executor hands to the task as is.
//
// # Copy Rule
//
// When an output feeds more than one input slot in the workflow, every slot
// receives its own record.Shallow copy. A consumer replacing fields on its
// copy therefore never affects a sibling. Values that do not implement
// record.Copier are passed by reference.
package builder

import (
	"context"

	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/task"
)

// Invocation is a node that is fully prepared for execution.
type Invocation struct {
	// Node is the node being executed.
	Node *node.Node
	// Name is the node's unique display name.
	Name string
	// Inputs are the dependency outputs, in declaration order.
	Inputs []any
	// Args is the run's argument bag for this node.
	Args task.Args
}

// Builder transforms a scheduled node into an Invocation.
type Builder interface {
	Build(ctx context.Context, g graph.Graph, n *node.Node, args task.Args) (*Invocation, error)
}
