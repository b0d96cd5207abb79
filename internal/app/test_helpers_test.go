package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/registry"
	"github.com/vk/gridflow/internal/task"
	"github.com/vk/gridflow/internal/testutil"
)

// testModule registers "value", returning its "value" argument, and "fail",
// which fails when its "fail" argument is true.
type testModule struct{}

func (testModule) Register(r *registry.Registry) {
	r.RegisterTask("value", func(defaults task.Args) (task.Task, error) {
		return registry.Configured("value", defaults, func(_ context.Context, _ []any, args task.Args) (any, error) {
			return args["value"], nil
		}), nil
	})
	r.RegisterTask("fail", func(defaults task.Args) (task.Task, error) {
		return registry.Configured("fail", defaults, func(_ context.Context, inputs []any, args task.Args) (any, error) {
			fail, err := args.Bool("fail", false)
			if err != nil {
				return nil, err
			}
			if fail {
				return nil, errors.New("asked to fail")
			}
			if len(inputs) > 0 {
				return inputs[0], nil
			}
			return nil, nil
		}), nil
	})
}

// setupAppTest creates a new app instance writing to a buffer.
func setupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	if cfg.Workers == 0 {
		cfg.Workers = 2
	}
	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &testutil.SafeBuffer{}
	a := NewApp(out, validated, modules...)

	t.Cleanup(func() {
		if os.Getenv("GRIDFLOW_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), out.String())
		}
	})
	return a, out
}

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(content), 0o644))
	return dir
}
