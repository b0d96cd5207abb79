package envvars

import (
	"context"
	"os"
	"strings"

	"github.com/vk/gridflow/internal/record"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the 'env_vars' task type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("env_vars", func(defaults task.Args) (task.Task, error) {
		return registry.Configured("env_vars", defaults, Run), nil
	})
}

// Run returns the process environment as a record. With a "prefix"
// argument only matching variables are kept, and "trim_prefix" strips it
// from the keys.
func Run(_ context.Context, _ []any, args task.Args) (any, error) {
	prefix, err := args.String("prefix", "")
	if err != nil {
		return nil, err
	}
	trim, err := args.Bool("trim_prefix", false)
	if err != nil {
		return nil, err
	}

	env := record.NewPatch(nil)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		if trim {
			key = strings.TrimPrefix(key, prefix)
		}
		env.Set(key, value)
	}
	return env, nil
}
