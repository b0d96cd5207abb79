package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/vk/gridflow/internal/task"
)

// ErrUnknownType is returned for a task type nobody registered.
var ErrUnknownType = errors.New("unknown task type")

// Factory builds a task from the arguments declared on its step. Those
// arguments act as defaults for every run; run arguments override them.
type Factory func(defaults task.Args) (task.Task, error)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the task factories of a single application instance.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// New creates a registry and registers the given modules.
func New(modules ...Module) *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterTask registers the factory for a task type. Registering a type
// twice is a programming error and panics.
func (r *Registry) RegisterTask(typeName string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeName]; exists {
		panic(fmt.Sprintf("task type '%s' already registered", typeName))
	}
	slog.Debug("Registering task type.", "type", typeName)
	r.factories[typeName] = f
}

// Lookup returns the factory of a task type.
func (r *Registry) Lookup(typeName string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[typeName]
	return f, ok
}

// NewTask builds a task of the given type.
func (r *Registry) NewTask(typeName string, defaults task.Args) (task.Task, error) {
	f, ok := r.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	t, err := f(defaults)
	if err != nil {
		return nil, fmt.Errorf("building %s task: %w", typeName, err)
	}
	return t, nil
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := lo.Keys(r.factories)
	slices.Sort(types)
	return types
}

// Configured returns a task of the given type that runs fn with the run
// arguments laid over defaults.
func Configured(typeName string, defaults task.Args, fn task.Func) task.Task {
	defaults = defaults.Clone()
	return task.Named(typeName, func(ctx context.Context, inputs []any, args task.Args) (any, error) {
		return fn(ctx, inputs, defaults.Merge(args))
	})
}
