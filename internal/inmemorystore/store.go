package inmemorystore

import (
	"context"
	"sync"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
type Store struct {
	states  sync.Map // Key: nodeid.UID, Value: node.Status
	outputs sync.Map // Key: nodeid.UID, Value: any
	stats   sync.Map // Key: nodeid.UID, Value: node.Stats
}

// New creates a new, empty in-memory node state store.
func New() nodestore.Store {
	return &Store{}
}

func (s *Store) SetStatus(ctx context.Context, id nodeid.UID, status node.Status) error {
	s.states.Store(id, status)
	return nil
}

// GetStatus retrieves the execution status of a specific node.
// If a status has not been set, it returns StatusPending.
func (s *Store) GetStatus(ctx context.Context, id nodeid.UID) (node.Status, error) {
	status, ok := s.states.Load(id)
	if !ok {
		return node.StatusPending, nil
	}
	return status.(node.Status), nil
}

func (s *Store) SetOutput(ctx context.Context, id nodeid.UID, output any) error {
	s.outputs.Store(id, output)
	return nil
}

func (s *Store) GetOutput(ctx context.Context, id nodeid.UID) (any, bool, error) {
	output, ok := s.outputs.Load(id)
	return output, ok, nil
}

func (s *Store) SetStats(ctx context.Context, id nodeid.UID, stats node.Stats) error {
	s.stats.Store(id, stats)
	return nil
}

func (s *Store) GetStats(ctx context.Context, id nodeid.UID) (node.Stats, bool, error) {
	v, ok := s.stats.Load(id)
	if !ok {
		return node.Stats{}, false, nil
	}
	return v.(node.Stats), true, nil
}
