package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/task"
)

// echoFactory builds tasks that return their "value" argument, or fail for
// the type "broken".
type echoFactory struct{}

func (echoFactory) NewTask(typeName string, defaults task.Args) (task.Task, error) {
	if typeName == "broken" {
		return nil, errors.New("cannot build")
	}
	defaults = defaults.Clone()
	return task.Named(typeName, func(_ context.Context, inputs []any, args task.Args) (any, error) {
		merged := defaults.Merge(args)
		if len(inputs) > 0 {
			return []any{inputs, merged["value"]}, nil
		}
		return merged["value"], nil
	}), nil
}

func at(line int) *FSInfo { return NewFSInfo("main.hcl", line) }

func TestGrid_BuildWithForwardReference(t *testing.T) {
	g := &Grid{
		Steps: []*Step{
			{Type: "echo", Name: "report", DependsOn: []string{"echo.load"}, Arguments: task.Args{"value": "r"}, FSInformation: at(1)},
			{Type: "echo", Name: "load", Arguments: task.Args{"value": "default"}, FSInformation: at(5)},
		},
		Outputs: []*Output{{Name: "result", Step: "report", FSInformation: at(9)}},
		Executions: []*Execution{
			{Name: "first", Arguments: map[string]task.Args{"load": {"value": "one"}}},
			{Name: "second"},
		},
	}

	bp, err := g.Build(context.Background(), echoFactory{})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, bp.Names)
	require.Len(t, bp.Executions, 2)

	names := make([]string, 0)
	for _, n := range bp.Workflow.Nodes() {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"load", "report", "output.result"}, names)

	res, err := bp.Workflow.Execute(context.Background(), bp.Executions[0])
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"one"}, "r"}, res.Outputs["result"])

	res, err = bp.Workflow.Execute(context.Background(), bp.Executions[1])
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"default"}, "r"}, res.Outputs["result"])
}

func TestGrid_DefaultExecution(t *testing.T) {
	g := &Grid{Steps: []*Step{{Type: "echo", Name: "only"}}}
	bp, err := g.Build(context.Background(), echoFactory{})
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultExecutionName}, bp.Names)
	assert.Len(t, bp.Executions, 1)
}

func TestGrid_ValidationErrors(t *testing.T) {
	g := &Grid{
		Steps: []*Step{
			{Type: "echo", Name: "a", FSInformation: at(1)},
			{Type: "echo", Name: "a", FSInformation: at(2)},
			{Type: "echo", Name: "b", DependsOn: []string{"ghost"}, FSInformation: at(3)},
		},
		Outputs: []*Output{
			{Name: "x", Step: "nowhere", FSInformation: at(4)},
			{Name: "x", Step: "a", FSInformation: at(5)},
		},
		Executions: []*Execution{
			{Name: "e", Arguments: map[string]task.Args{"phantom": {}}, FSInformation: at(6)},
			{Name: "e", FSInformation: at(7)},
		},
	}

	err := g.Validate()
	require.Error(t, err)
	for _, want := range []string{
		`step "a" already declared at main.hcl:1`,
		`unknown step "ghost"`,
		`unknown step "nowhere"`,
		`output "x" declared twice`,
		`unknown step "phantom"`,
		`execution "e" declared twice`,
	} {
		assert.ErrorContains(t, err, want)
	}

	_, err = g.Build(context.Background(), echoFactory{})
	assert.Error(t, err)
}

func TestGrid_BuildErrors(t *testing.T) {
	broken := &Grid{Steps: []*Step{{Type: "broken", Name: "b", FSInformation: at(3)}}}
	_, err := broken.Build(context.Background(), echoFactory{})
	assert.ErrorContains(t, err, "main.hcl:3")

	cyclic := &Grid{Steps: []*Step{
		{Type: "echo", Name: "a", DependsOn: []string{"b"}},
		{Type: "echo", Name: "b", DependsOn: []string{"a"}},
	}}
	_, err = cyclic.Build(context.Background(), echoFactory{})
	assert.ErrorIs(t, err, flowerr.ErrCycle)
}

func TestGrid_Append(t *testing.T) {
	g := NewGrid()
	g.Append(&Grid{Steps: []*Step{{Name: "a"}}, Outputs: []*Output{{Name: "o"}}})
	g.Append(&Grid{Executions: []*Execution{{Name: "e"}}})
	assert.Len(t, g.Steps, 1)
	assert.Len(t, g.Outputs, 1)
	assert.Len(t, g.Executions, 1)
}
