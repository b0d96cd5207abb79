// Package workflow builds validated task graphs and executes them.
//
// A Workflow is created once from a list of nodes. Construction rejects
// duplicate, dangling and cyclic graphs and caches a deterministic
// execution order. The Workflow is immutable afterwards: every call to
// Execute creates a fresh session holding the run's state, so the same
// Workflow can be executed many times, concurrently, with different
// arguments.
//
//	load := node.New(loadTask)
//	clean := node.New(cleanTask, node.WithInputs(load))
//	out := node.New(task.Output("clean"), node.WithInputs(clean))
//
//	wf, err := workflow.FromEndNodes(out)
//	res, err := wf.Execute(ctx, workflow.Arguments{load: {"path": "tile.json"}})
//	if res.Failed() { ... }
package workflow
