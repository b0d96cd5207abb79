package builder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/inmemorystore"
	"github.com/vk/gridflow/internal/inmemorytopology"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/record"
	"github.com/vk/gridflow/internal/task"
)

// setup builds src feeding both left and right, plus a solo chain
// one -> two, and completes src and one.
func setup(t *testing.T, srcOut, oneOut any) graph.Graph {
	t.Helper()
	ctx := context.Background()
	topo := inmemorytopology.New()
	for _, uid := range []nodeid.UID{"src", "left", "right", "one", "two"} {
		require.NoError(t, topo.AddNode(ctx, node.New(task.Output("x"), node.WithUID(uid)), uid.String()))
	}
	require.NoError(t, topo.AddDependency(ctx, "src", "left"))
	require.NoError(t, topo.AddDependency(ctx, "src", "right"))
	require.NoError(t, topo.AddDependency(ctx, "one", "two"))

	g := graph.New(topo, inmemorystore.New())
	require.NoError(t, g.MarkCompleted(ctx, "src", srcOut, time.Now()))
	require.NoError(t, g.MarkCompleted(ctx, "one", oneOut, time.Now()))
	return g
}

func TestBuild_CopiesSharedOutputs(t *testing.T) {
	ctx := context.Background()
	src := record.NewPatch(map[string]any{"v": 1})
	g := setup(t, src, nil)
	b := New()

	left, _ := g.Node(ctx, "left")
	right, _ := g.Node(ctx, "right")

	invL, err := b.Build(ctx, g, left, nil)
	require.NoError(t, err)
	invR, err := b.Build(ctx, g, right, nil)
	require.NoError(t, err)

	pl := invL.Inputs[0].(*record.Patch)
	pr := invR.Inputs[0].(*record.Patch)
	assert.NotSame(t, src, pl)
	assert.NotSame(t, pl, pr)

	pl.Set("v", 2)
	v, _ := pr.Get("v")
	assert.Equal(t, 1, v)
	v, _ = src.Get("v")
	assert.Equal(t, 1, v)
}

func TestBuild_SingleConsumerGetsOriginal(t *testing.T) {
	ctx := context.Background()
	one := record.NewPatch(map[string]any{"v": 1})
	g := setup(t, nil, one)

	two, _ := g.Node(ctx, "two")
	inv, err := New().Build(ctx, g, two, task.Args{"k": "v"})
	require.NoError(t, err)

	assert.Same(t, one, inv.Inputs[0])
	assert.Equal(t, task.Args{"k": "v"}, inv.Args)
	assert.Equal(t, "two", inv.Name)
}

func TestBuild_NoDependencies(t *testing.T) {
	ctx := context.Background()
	g := setup(t, nil, nil)

	src, _ := g.Node(ctx, "src")
	inv, err := New().Build(ctx, g, src, nil)
	require.NoError(t, err)

	assert.Empty(t, inv.Inputs)
	assert.NotNil(t, inv.Args)
}

func TestBuild_MissingDependencyOutput(t *testing.T) {
	ctx := context.Background()
	topo := inmemorytopology.New()
	require.NoError(t, topo.AddNode(ctx, node.New(task.Output("x"), node.WithUID("a")), "a"))
	require.NoError(t, topo.AddNode(ctx, node.New(task.Output("x"), node.WithUID("b")), "b"))
	require.NoError(t, topo.AddDependency(ctx, "a", "b"))
	g := graph.New(topo, inmemorystore.New())

	b, _ := g.Node(ctx, "b")
	_, err := New().Build(ctx, g, b, nil)
	assert.Error(t, err)
}
