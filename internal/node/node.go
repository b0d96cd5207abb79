// Package node defines the immutable vertex of a workflow graph.
package node

import (
	"slices"

	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/task"
)

// Node binds a task to the nodes whose outputs it consumes. Nodes never
// change after construction; a single node may take part in many runs.
type Node struct {
	uid  nodeid.UID
	name string
	task task.Task

	// deps lists dependency UIDs in declaration order. inputs holds the
	// matching node pointers where known, nil for UID-only references.
	deps   []nodeid.UID
	inputs []*Node
}

// Option configures a Node under construction.
type Option func(*Node)

// WithInputs declares the nodes whose outputs feed this node, in the order
// they will be passed to the task. Repeating a node is allowed.
func WithInputs(inputs ...*Node) Option {
	return func(n *Node) {
		for _, in := range inputs {
			if in == nil {
				n.deps = append(n.deps, "")
				n.inputs = append(n.inputs, nil)
				continue
			}
			n.deps = append(n.deps, in.uid)
			n.inputs = append(n.inputs, in)
		}
	}
}

// WithInputUIDs declares dependencies by UID only. Used by loaders that
// create nodes before all of their dependencies exist.
func WithInputUIDs(uids ...nodeid.UID) Option {
	return func(n *Node) {
		for _, uid := range uids {
			n.deps = append(n.deps, uid)
			n.inputs = append(n.inputs, nil)
		}
	}
}

// WithName sets the requested label; the workflow may add an index to keep
// labels unique.
func WithName(name string) Option {
	return func(n *Node) { n.name = name }
}

// WithUID pins the node identifier instead of generating one.
func WithUID(uid nodeid.UID) Option {
	return func(n *Node) { n.uid = uid }
}

// New creates a node for t. It panics on a nil task, which is always a
// programming error.
func New(t task.Task, opts ...Option) *Node {
	if t == nil {
		panic("node: nil task")
	}
	n := &Node{task: t}
	for _, opt := range opts {
		opt(n)
	}
	if n.uid == "" {
		n.uid = nodeid.NewUID(task.TypeName(t))
	}
	return n
}

// UID returns the unique identifier.
func (n *Node) UID() nodeid.UID { return n.uid }

// Task returns the bound task.
func (n *Node) Task() task.Task { return n.task }

// TaskType returns the type name of the bound task.
func (n *Node) TaskType() string { return task.TypeName(n.task) }

// Name returns the requested label, falling back to the task type.
func (n *Node) Name() string {
	if n.name != "" {
		return n.name
	}
	return n.TaskType()
}

// Dependencies returns the dependency UIDs in declaration order.
func (n *Node) Dependencies() []nodeid.UID {
	return slices.Clone(n.deps)
}

// Inputs returns the dependency nodes in declaration order. Entries declared
// by UID only are nil.
func (n *Node) Inputs() []*Node {
	return slices.Clone(n.inputs)
}
