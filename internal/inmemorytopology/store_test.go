package inmemorytopology

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/task"
)

func newNode(uid string) *node.Node {
	return node.New(task.Output("x"), node.WithUID(nodeid.UID(uid)))
}

func TestAddAndGetNode(t *testing.T) {
	s := New()
	ctx := context.Background()
	n := newNode("a")

	require.NoError(t, s.AddNode(ctx, n, "first"))

	got, ok := s.GetNode(ctx, "a")
	require.True(t, ok)
	assert.Same(t, n, got)

	name, ok := s.NameOf(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, "first", name)

	idx, ok := s.IndexOf(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = s.GetNode(ctx, "missing")
	assert.False(t, ok)
}

func TestAddNode_RejectsDuplicateUID(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.AddNode(ctx, newNode("a"), "a"))
	err := s.AddNode(ctx, newNode("a"), "a[1]")
	assert.ErrorIs(t, err, flowerr.ErrDuplicate)
}

func TestDependencies(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, uid := range []string{"a", "b", "c"} {
		require.NoError(t, s.AddNode(ctx, newNode(uid), uid))
	}

	// c consumes b then a then b again
	require.NoError(t, s.AddDependency(ctx, "b", "c"))
	require.NoError(t, s.AddDependency(ctx, "a", "c"))
	require.NoError(t, s.AddDependency(ctx, "b", "c"))

	deps, err := s.DependenciesOf(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []nodeid.UID{"b", "a", "b"}, deps)

	dependents, err := s.DependentsOf(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []nodeid.UID{"c", "c"}, dependents)

	assert.Equal(t, [][]int{nil, nil, {1, 0, 1}}, s.Adjacency(ctx))
}

func TestAddDependency_Dangling(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddNode(ctx, newNode("a"), "a"))

	err := s.AddDependency(ctx, "ghost", "a")
	assert.ErrorIs(t, err, flowerr.ErrDangling)

	err = s.AddDependency(ctx, "a", "ghost")
	assert.Error(t, err)
}

func TestAllNodes_InsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, uid := range []string{"z", "a", "m"} {
		require.NoError(t, s.AddNode(ctx, newNode(uid), uid))
	}

	var uids []nodeid.UID
	for _, n := range s.AllNodes(ctx) {
		uids = append(uids, n.UID())
	}
	assert.Equal(t, []nodeid.UID{"z", "a", "m"}, uids)
}

func TestDependenciesOf_UnknownNode(t *testing.T) {
	_, err := New().DependenciesOf(context.Background(), "nope")
	assert.Error(t, err)
}
