package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/record"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed lines. Nil means os.Stdout.
	Out io.Writer
	mu  sync.Mutex
}

// Register registers the 'print' task type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("print", func(defaults task.Args) (task.Task, error) {
		return registry.Configured("print", defaults, m.run), nil
	})
}

// run prints an optional message followed by every input, one per line, and
// passes its first input through.
func (m *Module) run(ctx context.Context, inputs []any, args task.Args) (any, error) {
	prefix, err := args.String("prefix", "")
	if err != nil {
		return nil, err
	}
	message, err := args.String("message", "")
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Info("Printing input", "inputs", len(inputs))

	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.Out
	if out == nil {
		out = os.Stdout
	}

	if message != "" {
		fmt.Fprintf(out, "%s%s\n", prefix, message)
	}
	for _, in := range inputs {
		writeValue(out, prefix, in)
	}

	if len(inputs) == 0 {
		return nil, nil
	}
	return inputs[0], nil
}

func writeValue(w io.Writer, prefix string, v any) {
	switch t := v.(type) {
	case nil:
		fmt.Fprintf(w, "%s(null)\n", prefix)
	case *record.Patch:
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			fmt.Fprintf(w, "%s%s = %v\n", prefix, k, val)
		}
	case map[string]any:
		// Sort keys for consistent output
		keys := lo.Keys(t)
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s%s = %v\n", prefix, k, t[k])
		}
	default:
		fmt.Fprintf(w, "%s%v\n", prefix, t)
	}
}
