package sink

import (
	"context"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Memory keeps every event in memory. Useful in tests.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func (m *Memory) Append(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Events returns a snapshot of the recorded events.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events)
}

// OfType returns the recorded events of type t.
func (m *Memory) OfType(t EventType) []Event {
	return lo.Filter(m.Events(), func(e Event, _ int) bool {
		return e.Type == t
	})
}
