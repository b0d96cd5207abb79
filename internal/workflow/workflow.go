package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/inmemorytopology"
	"github.com/vk/gridflow/internal/localsession"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/scheduler"
	"github.com/vk/gridflow/internal/session"
	"github.com/vk/gridflow/internal/task"
	"github.com/vk/gridflow/internal/topologystore"
)

// Workflow is a validated, immutable DAG of nodes.
type Workflow struct {
	topology topologystore.Store
	order    []*node.Node
	byName   map[string]*node.Node
	sessions session.SessionFactory
}

// New validates nodes and builds a workflow. Among nodes that become ready
// at the same time, the one listed first runs first.
func New(nodes ...*node.Node) (*Workflow, error) {
	if len(nodes) == 0 {
		return nil, &flowerr.GraphError{Kind: flowerr.ErrEmpty}
	}

	ctx := context.Background()
	requested := make([]string, len(nodes))
	for i, n := range nodes {
		if n == nil {
			return nil, &flowerr.GraphError{Kind: flowerr.ErrNilNode, Detail: fmt.Sprintf("position %d", i)}
		}
		requested[i] = n.Name()
	}
	if err := checkOutputNames(nodes); err != nil {
		return nil, err
	}
	names := nodeid.Disambiguate(requested)

	topo := inmemorytopology.New()
	for i, n := range nodes {
		if err := topo.AddNode(ctx, n, names[i]); err != nil {
			return nil, &flowerr.GraphError{Kind: flowerr.ErrDuplicate, NodeUID: n.UID(), Detail: err.Error()}
		}
	}
	for _, n := range nodes {
		for _, dep := range n.Dependencies() {
			if err := topo.AddDependency(ctx, dep, n.UID()); err != nil {
				if errors.Is(err, flowerr.ErrDangling) {
					return nil, &flowerr.GraphError{
						Kind:    flowerr.ErrDangling,
						NodeUID: n.UID(),
						Detail:  fmt.Sprintf("depends on %q which is not part of the workflow", dep),
					}
				}
				return nil, err
			}
		}
	}

	adjacency := topo.Adjacency(ctx)
	if cycle, found := scheduler.DetectCycles(adjacency); found {
		path := make([]string, len(cycle))
		for i, idx := range cycle {
			path[i] = names[idx]
		}
		return nil, &flowerr.GraphError{
			Kind:    flowerr.ErrCycle,
			NodeUID: nodes[cycle[0]].UID(),
			Detail:  strings.Join(path, " -> "),
		}
	}

	indices, err := scheduler.Sort(adjacency)
	if err != nil {
		return nil, &flowerr.GraphError{Kind: flowerr.ErrCycle, Detail: err.Error()}
	}

	wf := &Workflow{
		topology: topo,
		order:    make([]*node.Node, len(indices)),
		byName:   make(map[string]*node.Node, len(nodes)),
		sessions: localsession.NewFactory(),
	}
	for pos, idx := range indices {
		wf.order[pos] = nodes[idx]
	}
	for i, n := range nodes {
		wf.byName[names[i]] = n
	}
	return wf, nil
}

// checkOutputNames rejects two output nodes publishing under one name.
func checkOutputNames(nodes []*node.Node) error {
	owners := make(map[string]*node.Node)
	for _, n := range nodes {
		out, ok := n.Task().(task.Outputter)
		if !ok {
			continue
		}
		if prev, dup := owners[out.OutputName()]; dup && prev.UID() != n.UID() {
			return &flowerr.GraphError{
				Kind:    flowerr.ErrDuplicate,
				NodeUID: n.UID(),
				Detail:  fmt.Sprintf("output %q is already published by %s", out.OutputName(), prev.UID()),
			}
		}
		owners[out.OutputName()] = n
	}
	return nil
}

// FromEndNodes discovers every node reachable backwards from ends and
// builds a workflow from them. Dependencies are listed before their
// dependents and a node reachable along several paths is listed once.
func FromEndNodes(ends ...*node.Node) (*Workflow, error) {
	var (
		discovered []*node.Node
		seen       = make(map[nodeid.UID]bool)
		visit      func(n *node.Node) error
	)
	visit = func(n *node.Node) error {
		if seen[n.UID()] {
			return nil
		}
		seen[n.UID()] = true
		for i, in := range n.Inputs() {
			if in == nil {
				return &flowerr.GraphError{
					Kind:    flowerr.ErrDangling,
					NodeUID: n.UID(),
					Detail:  fmt.Sprintf("input %d (%q) is not reachable from the end nodes", i, n.Dependencies()[i]),
				}
			}
			if err := visit(in); err != nil {
				return err
			}
		}
		discovered = append(discovered, n)
		return nil
	}

	for i, end := range ends {
		if end == nil {
			return nil, &flowerr.GraphError{Kind: flowerr.ErrNilNode, Detail: fmt.Sprintf("end node %d", i)}
		}
		if err := visit(end); err != nil {
			return nil, err
		}
	}
	return New(discovered...)
}

// Nodes returns the nodes in execution order.
func (w *Workflow) Nodes() []*node.Node {
	return append([]*node.Node(nil), w.order...)
}

// Order returns the node UIDs in execution order.
func (w *Workflow) Order() []nodeid.UID {
	out := make([]nodeid.UID, len(w.order))
	for i, n := range w.order {
		out[i] = n.UID()
	}
	return out
}

// Node returns the member node with the given UID.
func (w *Workflow) Node(uid nodeid.UID) (*node.Node, bool) {
	return w.topology.GetNode(context.Background(), uid)
}

// NodeByName returns the member node with the given unique name.
func (w *Workflow) NodeByName(name string) (*node.Node, bool) {
	n, ok := w.byName[name]
	return n, ok
}

// NameOf returns the unique name of a member node.
func (w *Workflow) NameOf(uid nodeid.UID) (string, bool) {
	return w.topology.NameOf(context.Background(), uid)
}

// Dependencies returns the dependency nodes of uid in declaration order.
func (w *Workflow) Dependencies(uid nodeid.UID) ([]*node.Node, error) {
	ctx := context.Background()
	uids, err := w.topology.DependenciesOf(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]*node.Node, len(uids))
	for i, dep := range uids {
		out[i], _ = w.topology.GetNode(ctx, dep)
	}
	return out, nil
}

// Len returns the number of nodes.
func (w *Workflow) Len() int {
	return len(w.order)
}
