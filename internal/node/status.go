package node

// Status is the execution state of a node within one run.
type Status int

const (
	// StatusPending indicates the node has not started.
	StatusPending Status = iota
	// StatusRunning indicates the node's task is executing.
	StatusRunning
	// StatusCompleted indicates the task returned a value.
	StatusCompleted
	// StatusFailed indicates the task returned an error or was cancelled.
	StatusFailed
	// StatusSkipped indicates the run halted before the node could start.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}
