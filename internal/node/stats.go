package node

import (
	"encoding/json"
	"time"

	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/nodeid"
)

// Stats records one node execution.
type Stats struct {
	NodeUID   nodeid.UID
	NodeName  string
	StartTime time.Time
	EndTime   time.Time
	// Err is set when the node failed.
	Err *flowerr.ExecutionError
}

// Duration is the wall time between start and end.
func (s Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Failed reports whether the node ended in an error.
func (s Stats) Failed() bool {
	return s.Err != nil
}

type statsJSON struct {
	NodeUID   nodeid.UID              `json:"node_uid"`
	NodeName  string                  `json:"node_name"`
	StartTime time.Time               `json:"start_time"`
	EndTime   time.Time               `json:"end_time"`
	Error     *flowerr.ExecutionError `json:"error,omitempty"`
}

func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(statsJSON{
		NodeUID:   s.NodeUID,
		NodeName:  s.NodeName,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Error:     s.Err,
	})
}

func (s *Stats) UnmarshalJSON(data []byte) error {
	var raw statsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Stats{
		NodeUID:   raw.NodeUID,
		NodeName:  raw.NodeName,
		StartTime: raw.StartTime,
		EndTime:   raw.EndTime,
		Err:       raw.Error,
	}
	return nil
}
