// Package scheduler decides the order in which a workflow's nodes run.
//
// Ordering is computed once per workflow by Sort, a stable variant of Kahn's
// algorithm: whenever several nodes are ready, the one added to the workflow
// first goes first. DetectCycles runs before sorting so that a cyclic graph
// is reported with the offending path rather than as a sort failure.
//
// During a run, a Scheduler hands nodes to the executor one at a time. It is
// a pull iterator: the executor asks for the next node only after recording
// the outcome of the previous one, so the readiness check always sees the
// latest state.
package scheduler
