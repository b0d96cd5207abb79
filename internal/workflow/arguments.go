package workflow

import (
	"fmt"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/task"
)

// Arguments maps nodes to the argument bag they receive in one run. Nodes
// that are absent receive an empty bag.
type Arguments map[*node.Node]task.Args

// Clone deep-copies every bag so the copy shares no mutable state with a.
func (a Arguments) Clone() Arguments {
	if a == nil {
		return nil
	}
	out := make(Arguments, len(a))
	for n, args := range a {
		out[n] = args.Clone()
	}
	return out
}

// ArgumentsByName resolves bags keyed by node name.
func (w *Workflow) ArgumentsByName(byName map[string]task.Args) (Arguments, error) {
	out := make(Arguments, len(byName))
	for name, args := range byName {
		n, ok := w.NodeByName(name)
		if !ok {
			return nil, fmt.Errorf("arguments given for unknown node %q", name)
		}
		out[n] = args
	}
	return out, nil
}

// NamedArguments is the inverse of ArgumentsByName.
func (w *Workflow) NamedArguments(args Arguments) (map[string]task.Args, error) {
	out := make(map[string]task.Args, len(args))
	for n, bag := range args {
		if n == nil {
			return nil, fmt.Errorf("arguments given for a nil node")
		}
		name, ok := w.NameOf(n.UID())
		if !ok {
			return nil, fmt.Errorf("arguments given for node %q which is not part of the workflow", n.UID())
		}
		out[name] = bag
	}
	return out, nil
}

func (w *Workflow) bindArguments(args Arguments) (map[nodeid.UID]task.Args, error) {
	out := make(map[nodeid.UID]task.Args, len(args))
	for n, bag := range args {
		if n == nil {
			return nil, fmt.Errorf("arguments given for a nil node")
		}
		member, ok := w.Node(n.UID())
		if !ok || member != n {
			return nil, fmt.Errorf("arguments given for node %q which is not part of the workflow", n.UID())
		}
		out[n.UID()] = bag.Clone()
	}
	return out, nil
}
