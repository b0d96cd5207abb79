// Package parallelexecutor runs one workflow many times, once per argument
// set, across a bounded pool of workers.
//
// Runs are independent: each receives a deep copy of its arguments and a
// fresh run session, and a run that fails (inside the graph or around it)
// never affects its siblings. The Report lists the runs in the order of the
// argument sets, regardless of the order in which they finished.
//
// Two isolation modes are available. IsolationGoroutine executes runs on a
// goroutine pool inside the current process. IsolationProcess starts one
// worker process per run and exchanges JSON messages with it over stdin and
// stdout; see ServeWorker for the child side.
//
// The executor is single-use. Its state advances
// Idle -> Dispatching -> Collecting -> Finalized, and a second call to Run
// fails with ErrAlreadyRun.
package parallelexecutor
