package parallelexecutor

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/vk/gridflow/internal/workflow"
)

// dispatcher executes a single run somewhere and brings back its results.
// An error means the run produced no results of its own.
type dispatcher interface {
	Dispatch(ctx context.Context, index int, args workflow.Arguments) (*workflow.Results, error)
}

// goroutineDispatcher executes runs on the calling goroutine.
type goroutineDispatcher struct {
	wf *workflow.Workflow
}

func (d *goroutineDispatcher) Dispatch(ctx context.Context, _ int, args workflow.Arguments) (*workflow.Results, error) {
	return d.wf.Execute(ctx, args)
}

// dispatchRecovered calls d and reports a panic escaping it as an error.
// Task panics never get here; they fail their node.
func dispatchRecovered(ctx context.Context, d dispatcher, index int, args workflow.Arguments) (res *workflow.Results, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return d.Dispatch(ctx, index, args)
}
