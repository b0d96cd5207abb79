package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loadTask struct{}

func (loadTask) Execute(context.Context, []any, Args) (any, error) { return nil, nil }

func TestTypeName(t *testing.T) {
	assert.Equal(t, "loadTask", TypeName(loadTask{}))
	assert.Equal(t, "loadTask", TypeName(&loadTask{}))
	assert.Equal(t, "Output", TypeName(Output("x")))
	assert.Equal(t, "Sum", TypeName(Named("Sum", func(context.Context, []any, Args) (any, error) { return 0, nil })))
	assert.Equal(t, "Func", TypeName(Func(func(context.Context, []any, Args) (any, error) { return 0, nil })))
}

func TestOutputTask(t *testing.T) {
	out := Output("result")
	assert.Equal(t, "result", out.OutputName())

	v, err := out.Execute(context.Background(), []any{42}, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = out.Execute(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestArgs_CloneIsDeep(t *testing.T) {
	orig := Args{"list": []any{1, 2}, "n": 3}
	cp := orig.Clone()
	cp["list"].([]any)[0] = 100
	cp["n"] = 4

	assert.Equal(t, 1, orig["list"].([]any)[0])
	assert.Equal(t, 3, orig["n"])
	assert.Nil(t, Args(nil).Clone())
}

func TestArgs_Merge(t *testing.T) {
	merged := Args{"a": 1, "b": 2}.Merge(Args{"b": 3})
	assert.Equal(t, Args{"a": 1, "b": 3}, merged)
}

func TestArgs_Getters(t *testing.T) {
	args := Args{
		"name":    "tile",
		"count":   float64(3),
		"half":    1.5,
		"enabled": "true",
		"timeout": "2s",
		"wait":    float64(1),
	}

	s, err := args.String("name", "")
	require.NoError(t, err)
	assert.Equal(t, "tile", s)

	s, err = args.String("missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", s)

	_, err = args.String("count", "")
	assert.Error(t, err)

	n, err := args.Int("count", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = args.Int("half", 0)
	assert.Error(t, err)

	b, err := args.Bool("enabled", false)
	require.NoError(t, err)
	assert.True(t, b)

	d, err := args.Duration("timeout", 0)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	d, err = args.Duration("wait", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
}
