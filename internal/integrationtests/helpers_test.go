package integrationtests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/app"
	"github.com/vk/gridflow/internal/parallelexecutor"
	"github.com/vk/gridflow/internal/testutil"
)

// result holds everything a scenario may assert on.
type result struct {
	Report    *parallelexecutor.Report
	Err       error
	LogOutput string
	Module    *testutil.Module
}

// runIntegrationTest writes files below a temporary directory and runs them
// with the test module registered. Paths in files are relative to that
// directory; cfg.Paths defaults to the directory itself.
func runIntegrationTest(t *testing.T, files map[string]string, cfg app.Config) *result {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{dir}
	} else {
		for i, p := range cfg.Paths {
			cfg.Paths[i] = filepath.Join(dir, p)
		}
	}
	if cfg.ArgsFile != "" {
		cfg.ArgsFile = filepath.Join(dir, cfg.ArgsFile)
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	cfg.LogLevel = "debug"
	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	module := testutil.NewModule(50 * time.Millisecond)
	a := app.NewApp(logs, validated, module)

	report, runErr := a.Run(context.Background())

	t.Cleanup(func() {
		if os.Getenv("GRIDFLOW_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return &result{Report: report, Err: runErr, LogOutput: logs.String(), Module: module}
}
