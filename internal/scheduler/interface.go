package scheduler

import (
	"context"

	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
)

// Scheduler yields the nodes of one run in execution order.
type Scheduler interface {
	// Next returns the next node whose dependencies have all completed. It
	// returns false once the order is exhausted or the next node cannot run
	// because a dependency did not complete.
	Next(ctx context.Context) (*node.Node, bool)

	// Remaining lists the nodes that were never handed out.
	Remaining() []nodeid.UID
}
