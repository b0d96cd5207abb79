package task

import (
	"context"
	"fmt"
)

// Outputter marks tasks whose result is published in the run results under
// a user-chosen key.
type Outputter interface {
	OutputName() string
}

// OutputTask forwards its single input unchanged and publishes it under Name.
type OutputTask struct {
	Name string
}

// Output creates an OutputTask.
func Output(name string) *OutputTask {
	return &OutputTask{Name: name}
}

func (o *OutputTask) OutputName() string { return o.Name }

func (o *OutputTask) TypeName() string { return "Output" }

func (o *OutputTask) Execute(_ context.Context, inputs []any, _ Args) (any, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("output %q expects exactly one input, got %d", o.Name, len(inputs))
	}
	return inputs[0], nil
}
