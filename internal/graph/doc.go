// Package graph provides a unified facade over the two stores backing a
// workflow run: the shared, read-only topology and the run's own node state.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│           Graph Facade              │
//	│  (scheduler, builder and executor   │
//	│   query and update through it)      │
//	└──────────┬────────────┬─────────────┘
//	           │            │
//	           ▼            ▼
//	  ┌────────────┐  ┌────────────┐
//	  │  Topology  │  │ Node State │
//	  │   Store    │  │   Store    │
//	  │ (shared)   │  │ (per run)  │
//	  └────────────┘  └────────────┘
//
// The topology store is written once when the workflow is created. A new
// node store, and with it a new Manager, is created for every run, which is
// what keeps concurrent runs of one workflow from seeing each other's state.
//
// # Usage Patterns
//
// The executor updates the graph as nodes execute:
//
//	g.MarkRunning(ctx, id, time.Now())
//	output, err := t.Execute(ctx, inputs, args)
//	if err != nil {
//	    g.MarkFailed(ctx, id, execErr, time.Now())
//	} else {
//	    g.MarkCompleted(ctx, id, output, time.Now())
//	}
package graph
