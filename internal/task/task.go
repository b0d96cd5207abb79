// Package task defines the unit of work executed by a workflow node.
package task

import (
	"context"
	"reflect"
)

// Task is a user-defined computation. It receives the outputs of its
// dependencies in declaration order plus a per-run argument bag, and
// returns a single value or an error.
//
// A Task instance may be shared between concurrent runs, so implementations
// must not keep per-run state on the receiver.
type Task interface {
	Execute(ctx context.Context, inputs []any, args Args) (any, error)
}

// Func adapts a plain function to the Task interface.
type Func func(ctx context.Context, inputs []any, args Args) (any, error)

// Execute implements Task.
func (f Func) Execute(ctx context.Context, inputs []any, args Args) (any, error) {
	return f(ctx, inputs, args)
}

// Typed is implemented by tasks that want to control their type name, which
// prefixes node UIDs and serves as the default node name.
type Typed interface {
	TypeName() string
}

type named struct {
	Func
	name string
}

func (n named) TypeName() string { return n.name }

// Named wraps fn as a Task with an explicit type name.
func Named(name string, fn Func) Task {
	return named{Func: fn, name: name}
}

// TypeName returns the type name of t.
func TypeName(t Task) string {
	if typed, ok := t.(Typed); ok {
		return typed.TypeName()
	}
	rt := reflect.TypeOf(t)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Name() == "" {
		return "Task"
	}
	return rt.Name()
}
