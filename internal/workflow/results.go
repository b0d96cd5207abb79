package workflow

import (
	"time"

	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/node"
	"github.com/vk/gridflow/internal/nodeid"
	"github.com/vk/gridflow/internal/task"
)

// Results is the outcome of one run.
type Results struct {
	// Outputs holds the values of output nodes, by output name. After a
	// failure it only holds outputs that completed first.
	Outputs   map[string]any `json:"outputs"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	// Stats holds one entry per node that started, by UID.
	Stats map[nodeid.UID]node.Stats `json:"stats"`
	// ErrorNodeUID is the node that halted the run, empty on success.
	ErrorNodeUID nodeid.UID `json:"error_node_uid,omitempty"`
}

// Failed reports whether a node failed.
func (r *Results) Failed() bool {
	return r.ErrorNodeUID != ""
}

// Err returns the failure of the halting node, or nil.
func (r *Results) Err() *flowerr.ExecutionError {
	if !r.Failed() {
		return nil
	}
	if s, ok := r.Stats[r.ErrorNodeUID]; ok && s.Err != nil {
		return s.Err
	}
	return &flowerr.ExecutionError{NodeUID: r.ErrorNodeUID}
}

// Output returns the value published by an output node.
func (r *Results) Output(n *node.Node) (any, bool) {
	out, ok := n.Task().(task.Outputter)
	if !ok {
		return nil, false
	}
	v, ok := r.Outputs[out.OutputName()]
	return v, ok
}

// Duration is the wall time of the run.
func (r *Results) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
