package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/record"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/task"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	reg := registry.New(&Module{Out: &buf})

	p, err := reg.NewTask("print", task.Args{"prefix": "> "})
	require.NoError(t, err)

	patch := record.NewPatch(map[string]any{"b": 2, "a": 1})
	out, err := p.Execute(context.Background(), []any{patch, "tail", nil}, task.Args{"message": "hello"})
	require.NoError(t, err)

	assert.Same(t, patch, out)
	assert.Equal(t, "> hello\n> a = 1\n> b = 2\n> tail\n> (null)\n", buf.String())
}

func TestPrint_NoInputs(t *testing.T) {
	var buf bytes.Buffer
	reg := registry.New(&Module{Out: &buf})
	p, err := reg.NewTask("print", nil)
	require.NoError(t, err)

	out, err := p.Execute(context.Background(), nil, task.Args{"message": map[string]any{}})
	assert.Error(t, err)
	assert.Nil(t, out)

	out, err = p.Execute(context.Background(), []any{map[string]any{"z": 1, "y": 2}}, nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, "y = 2\nz = 1\n", buf.String())
}
