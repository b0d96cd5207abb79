package app

import (
	"context"
	"fmt"
)

// Validate loads and builds the workflow without running it and prints the
// execution order.
func (a *App) Validate(ctx context.Context) error {
	ctx = a.context(ctx)

	bp, err := a.load(ctx, a.config.Paths)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.outW, renderExecutionOrder(bp.Workflow))
	fmt.Fprintf(a.outW, "executions: %v\n", bp.Names)
	return nil
}
