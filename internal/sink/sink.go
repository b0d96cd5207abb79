// Package sink receives the lifecycle events of a multi-run execution.
//
// A Sink is append-only: the executor reports what happened and never reads
// back. Sinks are called from worker goroutines and must be safe for
// concurrent use.
package sink

import (
	"context"
	"errors"
	"time"

	"github.com/vk/gridflow/internal/workflow"
)

// EventType describes what an Event reports.
type EventType string

const (
	EventRunStarted  EventType = "run_started"
	EventRunFinished EventType = "run_finished"
	EventRunSkipped  EventType = "run_skipped"
)

// Event is one notification about a run.
type Event struct {
	Type     EventType `json:"type"`
	Time     time.Time `json:"time"`
	RunIndex int       `json:"run_index"`
	RunName  string    `json:"run_name"`
	// State is the final run state for EventRunFinished and EventRunSkipped.
	State   string            `json:"state,omitempty"`
	Results *workflow.Results `json:"results,omitempty"`
	Err     string            `json:"error,omitempty"`
}

// Sink consumes events.
type Sink interface {
	Append(ctx context.Context, e Event) error
}

// Multi fans every event out to all sinks. Each sink sees the event even if
// an earlier one failed; the errors are joined.
type Multi []Sink

func (m Multi) Append(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Append(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Append(context.Context, Event) error { return nil }
