package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/inmemorystore"
	"github.com/vk/gridflow/internal/inmemorytopology"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/task"
)

// chain builds a -> b -> c and returns a graph over it.
func chain(t *testing.T) graph.Graph {
	t.Helper()
	ctx := context.Background()
	topo := inmemorytopology.New()
	for _, uid := range []nodeid.UID{"a", "b", "c"} {
		require.NoError(t, topo.AddNode(ctx, node.New(task.Output("x"), node.WithUID(uid)), uid.String()))
	}
	require.NoError(t, topo.AddDependency(ctx, "a", "b"))
	require.NoError(t, topo.AddDependency(ctx, "b", "c"))
	return graph.New(topo, inmemorystore.New())
}

func TestSequential_YieldsInOrder(t *testing.T) {
	ctx := context.Background()
	g := chain(t)
	s := New(g, []nodeid.UID{"a", "b", "c"})

	var got []nodeid.UID
	for {
		n, ok := s.Next(ctx)
		if !ok {
			break
		}
		got = append(got, n.UID())
		require.NoError(t, g.MarkCompleted(ctx, n.UID(), nil, time.Now()))
	}

	assert.Equal(t, []nodeid.UID{"a", "b", "c"}, got)
	assert.Empty(t, s.Remaining())
}

func TestSequential_StopsAfterFailure(t *testing.T) {
	ctx := context.Background()
	g := chain(t)
	s := New(g, []nodeid.UID{"a", "b", "c"})

	n, ok := s.Next(ctx)
	require.True(t, ok)
	require.NoError(t, g.MarkCompleted(ctx, n.UID(), nil, time.Now()))

	n, ok = s.Next(ctx)
	require.True(t, ok)
	execErr := &flowerr.ExecutionError{NodeUID: n.UID(), Cause: errors.New("boom")}
	require.NoError(t, g.MarkFailed(ctx, n.UID(), execErr, time.Now()))

	_, ok = s.Next(ctx)
	assert.False(t, ok)
	assert.Equal(t, []nodeid.UID{"c"}, s.Remaining())
}
