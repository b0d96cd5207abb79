package inmemorytopology

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/topologystore"
)

// Store implements topologystore.Store as an index arena guarded by a
// read-write mutex. Nodes live in a slice; edges are lists of indices.
type Store struct {
	mu         sync.RWMutex
	nodes      []*node.Node
	names      []string
	index      map[nodeid.UID]int
	deps       [][]int // deps[i]: indices node i consumes, slot order
	dependents [][]int // dependents[i]: indices consuming node i
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{index: make(map[nodeid.UID]int)}
}

// AddNode adds a new node to the store.
func (s *Store) AddNode(ctx context.Context, n *node.Node, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[n.UID()]; exists {
		return fmt.Errorf("%w: %s", flowerr.ErrDuplicate, n.UID())
	}
	s.index[n.UID()] = len(s.nodes)
	s.nodes = append(s.nodes, n)
	s.names = append(s.names, name)
	s.deps = append(s.deps, nil)
	s.dependents = append(s.dependents, nil)
	return nil
}

// AddDependency creates a dependency link from one node to another.
func (s *Store) AddDependency(ctx context.Context, from, to nodeid.UID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromIdx, ok := s.index[from]
	if !ok {
		return fmt.Errorf("%w: %q is not part of the workflow", flowerr.ErrDangling, from)
	}
	toIdx, ok := s.index[to]
	if !ok {
		return fmt.Errorf("dependency target node %q not found in topology", to)
	}

	s.deps[toIdx] = append(s.deps[toIdx], fromIdx)
	s.dependents[fromIdx] = append(s.dependents[fromIdx], toIdx)
	return nil
}

// GetNode retrieves a single node by its UID.
func (s *Store) GetNode(ctx context.Context, id nodeid.UID) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.nodes[i], true
}

func (s *Store) NameOf(ctx context.Context, id nodeid.UID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return "", false
	}
	return s.names[i], true
}

func (s *Store) IndexOf(ctx context.Context, id nodeid.UID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	return i, ok
}

// AllNodes returns a snapshot of all nodes in insertion order.
func (s *Store) AllNodes(ctx context.Context) []*node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.nodes)
}

// DependenciesOf returns the UIDs of all nodes that the given node depends on.
func (s *Store) DependenciesOf(ctx context.Context, id nodeid.UID) ([]nodeid.UID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("node %q not found in topology", id)
	}
	return s.uidsLocked(s.deps[i]), nil
}

// DependentsOf returns the UIDs of all nodes consuming the given node.
func (s *Store) DependentsOf(ctx context.Context, id nodeid.UID) ([]nodeid.UID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("node %q not found in topology", id)
	}
	return s.uidsLocked(s.dependents[i]), nil
}

func (s *Store) Adjacency(ctx context.Context) [][]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]int, len(s.deps))
	for i, d := range s.deps {
		out[i] = slices.Clone(d)
	}
	return out
}

func (s *Store) uidsLocked(indices []int) []nodeid.UID {
	out := make([]nodeid.UID, len(indices))
	for j, idx := range indices {
		out[j] = s.nodes[idx].UID()
	}
	return out
}
