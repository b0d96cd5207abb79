package testutil

import (
	"time"

	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/task"
)

// Module registers the test tasks as task types:
//
//	sleeper    sleeps, then records its execution under "id"
//	fail_when  fails when "fail" is true, otherwise returns "value"
//	counter    counts its invocations
type Module struct {
	Sleeper *Sleeper
	Counter *Counter
}

// NewModule creates a Module whose sleeper sleeps for sleep.
func NewModule(sleep time.Duration) *Module {
	return &Module{Sleeper: NewSleeper(sleep), Counter: &Counter{}}
}

func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask("sleeper", func(defaults task.Args) (task.Task, error) {
		return registry.Configured("sleeper", defaults, m.Sleeper.Execute), nil
	})
	r.RegisterTask("fail_when", func(defaults task.Args) (task.Task, error) {
		return registry.Configured("fail_when", defaults, FailWhen("fail_when").Execute), nil
	})
	r.RegisterTask("counter", func(defaults task.Args) (task.Task, error) {
		return registry.Configured("counter", defaults, m.Counter.Execute), nil
	})
}
