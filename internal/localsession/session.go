// Package localsession provides a concrete implementation of the session.Session
// and session.SessionFactory interfaces for local, in-process execution.
package localsession

import (
	"context"

	"github.com/vk/gridflow/internal/builder"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/executor"
	"github.com/vk/gridflow/internal/graph"
	"github.com/vk/gridflow/internal/inmemorystore"
	"github.com/vk/gridflow/internal/localexecutor"
	"github.com/vk/gridflow/internal/scheduler"
	"github.com/vk/gridflow/internal/session"
)

// SessionFactory implements session.SessionFactory for local runs.
type SessionFactory struct{}

// NewFactory returns a factory for local sessions.
func NewFactory() session.SessionFactory {
	return &SessionFactory{}
}

// NewSession creates and configures a new local session.
func (f *SessionFactory) NewSession(ctx context.Context, plan session.Plan) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Creating local session.", "nodes", len(plan.Order))

	// The topology is shared; everything below is private to this run.
	nodeStore := inmemorystore.New()
	g := graph.New(plan.Topology, nodeStore)
	taskBuilder := builder.New()
	sched := scheduler.New(g, plan.Order)
	exec := localexecutor.New(sched, g, taskBuilder, plan.Args)

	return &Session{
		executor: exec,
		graph:    g,
	}, nil
}

// Session implements session.Session for local runs.
type Session struct {
	executor executor.Executor
	graph    graph.Graph
}

// GetExecutor returns the executor that was created and wired up by the factory.
func (s *Session) GetExecutor() (executor.Executor, error) {
	return s.executor, nil
}

func (s *Session) Graph() graph.Graph {
	return s.graph
}

// Close drops the session's references so its state can be collected.
func (s *Session) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Closing local session.")
	s.executor = nil
	return nil
}
