package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/gridflow/internal/task"
)

// ExecutionRecord holds the start and end times for a single execution.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two records share any wall-clock time.
func (r ExecutionRecord) Overlaps(other ExecutionRecord) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Sleeper is a task for concurrency tests. It sleeps, then records its
// execution time under the "id" argument.
type Sleeper struct {
	ExecutionTimes map[string]ExecutionRecord
	mu             sync.Mutex
	sleepDuration  time.Duration
}

// NewSleeper creates a sleeper task.
func NewSleeper(sleep time.Duration) *Sleeper {
	return &Sleeper{
		ExecutionTimes: make(map[string]ExecutionRecord),
		sleepDuration:  sleep,
	}
}

func (s *Sleeper) TypeName() string { return "Sleeper" }

func (s *Sleeper) Execute(ctx context.Context, _ []any, args task.Args) (any, error) {
	id, err := args.String("id", "")
	if err != nil {
		return nil, err
	}

	start := time.Now()
	select {
	case <-time.After(s.sleepDuration):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	end := time.Now()

	s.mu.Lock()
	s.ExecutionTimes[id] = ExecutionRecord{Start: start, End: end}
	s.mu.Unlock()
	return id, nil
}

// Records returns a snapshot of the recorded executions.
func (s *Sleeper) Records() map[string]ExecutionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]ExecutionRecord, len(s.ExecutionTimes))
	for k, v := range s.ExecutionTimes {
		out[k] = v
	}
	return out
}

// AnyOverlap reports whether at least two records overlap in time.
func AnyOverlap(records map[string]ExecutionRecord) bool {
	list := make([]ExecutionRecord, 0, len(records))
	for _, r := range records {
		list = append(list, r)
	}
	for i := range list {
		for j := i + 1; j < len(list); j++ {
			if list[i].Overlaps(list[j]) {
				return true
			}
		}
	}
	return false
}
