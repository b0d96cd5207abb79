// Package executor defines the interface for the engine that drives one
// workflow run to completion.
package executor

import "context"

// Executor orchestrates the execution of a single run. It pulls nodes from a
// scheduler, prepares them with a builder and records every outcome in the
// run's graph.
//
// Execute returns the *flowerr.ExecutionError of the node that halted the run,
// or nil when every node completed. Infrastructure failures (store errors)
// are returned as plain errors.
type Executor interface {
	Execute(ctx context.Context) error
}
