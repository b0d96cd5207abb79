package testutil

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/vk/gridflow/internal/record"
	"github.com/vk/gridflow/internal/task"
)

// ErrInjected is returned by Failing tasks.
var ErrInjected = errors.New("injected failure")

// Const returns a task producing v.
func Const(name string, v any) task.Task {
	return task.Named(name, func(context.Context, []any, task.Args) (any, error) {
		return v, nil
	})
}

// Failing returns a task that always fails with ErrInjected.
func Failing(name string) task.Task {
	return task.Named(name, func(context.Context, []any, task.Args) (any, error) {
		return nil, ErrInjected
	})
}

// FailWhen returns a task that fails with ErrInjected when its "fail"
// argument is true and otherwise returns its "value" argument.
func FailWhen(name string) task.Task {
	return task.Named(name, func(_ context.Context, _ []any, args task.Args) (any, error) {
		fail, err := args.Bool("fail", false)
		if err != nil {
			return nil, err
		}
		if fail {
			return nil, ErrInjected
		}
		return args["value"], nil
	})
}

// Counter counts its invocations.
type Counter struct {
	calls atomic.Int64
}

func (c *Counter) TypeName() string { return "Counter" }

func (c *Counter) Execute(context.Context, []any, task.Args) (any, error) {
	return c.calls.Add(1), nil
}

// Calls returns the number of invocations so far.
func (c *Counter) Calls() int64 {
	return c.calls.Load()
}

// SetField returns a task that writes args["value"] under key into its first
// input, which must be a *record.Patch, and returns that patch.
func SetField(name, key string) task.Task {
	return task.Named(name, func(_ context.Context, inputs []any, args task.Args) (any, error) {
		if len(inputs) == 0 {
			return nil, errors.New("no input record")
		}
		p, ok := inputs[0].(*record.Patch)
		if !ok {
			return nil, errors.New("input is not a patch")
		}
		p.Set(key, args["value"])
		return p, nil
	})
}
