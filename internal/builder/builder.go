package builder

import (
	"context"
	"fmt"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/record"
	"github.com/vk/gridflow/internal/task"
)

// DefaultBuilder implements the logic for preparing a single node for execution.
type DefaultBuilder struct{}

// New creates a new default builder.
func New() Builder {
	return &DefaultBuilder{}
}

// Build implements the Builder interface.
func (b *DefaultBuilder) Build(ctx context.Context, g graph.Graph, n *node.Node, args task.Args) (*Invocation, error) {
	logger := ctxlog.FromContext(ctx)

	deps, err := g.DependenciesOf(ctx, n.UID())
	if err != nil {
		return nil, err
	}

	inputs := make([]any, len(deps))
	for i, dep := range deps {
		out, ok := g.Output(ctx, dep.UID())
		if !ok {
			return nil, fmt.Errorf("output of dependency %q is not available", g.Name(ctx, dep.UID()))
		}
		consumers, err := g.ConsumerCount(ctx, dep.UID())
		if err != nil {
			return nil, err
		}
		if consumers > 1 {
			out = record.Shallow(out)
		}
		inputs[i] = out
	}

	if args == nil {
		args = task.Args{}
	}

	logger.Debug("Built invocation.", "node", n.UID(), "inputs", len(inputs), "args", len(args))
	return &Invocation{
		Node:   n,
		Name:   g.Name(ctx, n.UID()),
		Inputs: inputs,
		Args:   args,
	}, nil
}
