package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/parallelexecutor"
	"github.com/vk/gridflow/internal/sink"
	"github.com/vk/gridflow/internal/task"
)

const pipelineHCL = `
step "value" "load" {
  arguments {
    value = "loaded"
  }
}

step "fail" "check" {
  depends_on = ["load"]
}

output "checked" {
  step = "check"
}

execution "good" {}

execution "bad" {
  arguments "check" {
    fail = true
  }
}
`

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{Paths: []string{"grid"}, Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, "goroutine", cfg.Isolation)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)

	cases := map[string]Config{
		"no paths":       {Workers: 1},
		"no workers":     {Paths: []string{"g"}},
		"bad isolation":  {Paths: []string{"g"}, Workers: 1, Isolation: "thread"},
		"bad log format": {Paths: []string{"g"}, Workers: 1, LogFormat: "xml"},
		"bad log level":  {Paths: []string{"g"}, Workers: 1, LogLevel: "loud"},
		"bad port":       {Paths: []string{"g"}, Workers: 1, HealthcheckPort: 70000},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewConfig(c)
			assert.Error(t, err)
		})
	}
}

func TestApp_Run(t *testing.T) {
	dir := writeDefinition(t, pipelineHCL)
	logsDir := filepath.Join(t.TempDir(), "logs")
	events := filepath.Join(t.TempDir(), "events.jsonl")

	a, out := setupAppTest(t, Config{
		Paths:      []string{dir},
		LogsDir:    logsDir,
		EventsPath: events,
	}, testModule{})

	report, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, []int{0}, report.SuccessfulRuns())
	assert.Equal(t, []int{1}, report.FailedRuns())
	assert.Equal(t, "loaded", report.Runs[0].Workflow.Outputs["checked"])

	text := out.String()
	assert.Contains(t, text, "good")
	assert.Contains(t, text, "asked to fail")
	assert.Contains(t, text, "checked = loaded")

	for _, name := range []string{"good", "bad"} {
		_, err := os.Stat(filepath.Join(logsDir, parallelexecutor.LogFileName(name)))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(events)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 4)
	var first sink.Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, sink.EventRunStarted, first.Type)
}

func TestApp_RunWithArgsFile(t *testing.T) {
	dir := writeDefinition(t, pipelineHCL)
	argsFile := filepath.Join(t.TempDir(), "args.yaml")
	require.NoError(t, os.WriteFile(argsFile, []byte(`
- name: from-yaml
  arguments:
    load:
      value: 42
`), 0o644))

	a, _ := setupAppTest(t, Config{Paths: []string{dir}, ArgsFile: argsFile}, testModule{})

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.Total)
	assert.Equal(t, "from-yaml", report.Runs[2].Name)
	assert.EqualValues(t, 42, report.Runs[2].Workflow.Outputs["checked"])
}

func TestApp_RunLoadError(t *testing.T) {
	dir := writeDefinition(t, `step "missing_type" "a" {}`)
	a, _ := setupAppTest(t, Config{Paths: []string{dir}}, testModule{})

	_, err := a.Run(context.Background())
	assert.ErrorContains(t, err, "missing_type")
}

func TestApp_RunCancelled(t *testing.T) {
	dir := writeDefinition(t, pipelineHCL)
	a, _ := setupAppTest(t, Config{Paths: []string{dir}}, testModule{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := a.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Cancelled)
}

func TestApp_Validate(t *testing.T) {
	dir := writeDefinition(t, pipelineHCL)
	a, out := setupAppTest(t, Config{Paths: []string{dir}}, testModule{})

	require.NoError(t, a.Validate(context.Background()))
	text := out.String()
	assert.Contains(t, text, "output.checked")
	assert.Contains(t, text, "[good bad]")
	assert.Less(t, strings.Index(text, "| load"), strings.Index(text, "| check"))
}

func TestApp_Worker(t *testing.T) {
	dir := writeDefinition(t, pipelineHCL)
	a, _ := setupAppTest(t, Config{Paths: []string{dir}}, testModule{})

	req, err := json.Marshal(parallelexecutor.WorkerRequest{
		Definition: []string{dir},
		Arguments:  map[string]task.Args{"load": {"value": "remote"}},
		LogLevel:   "INFO",
	})
	require.NoError(t, err)

	var out, logs bytes.Buffer
	require.NoError(t, a.Worker(context.Background(), bytes.NewReader(req), &out, &logs))

	var resp parallelexecutor.WorkerResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.NotNil(t, resp.Results)
	assert.Equal(t, "remote", resp.Results.Outputs["checked"])
}

func TestHealthMux(t *testing.T) {
	a, _ := setupAppTest(t, Config{Paths: []string{"unused"}}, testModule{})
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "gridflow_test_total"})
	a.metrics.MustRegister(counter)
	counter.Inc()

	srv := httptest.NewServer(newHealthMux(a.logger, a.metrics))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/health", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "gridflow_test_total 1")
}

func TestLoadArgsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "args.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: one
  arguments:
    fetch:
      url: https://example.com
      retries: 3
- name: two
`), 0o644))

	execs, err := LoadArgsFile(path)
	require.NoError(t, err)
	require.Len(t, execs, 2)
	assert.Equal(t, "one", execs[0].Name)
	assert.Equal(t, "https://example.com", execs[0].Arguments["fetch"]["url"])
	assert.EqualValues(t, 3, execs[0].Arguments["fetch"]["retries"])
	assert.Empty(t, execs[1].Arguments)

	require.NoError(t, os.WriteFile(path, []byte("- arguments: {}\n"), 0o644))
	_, err = LoadArgsFile(path)
	assert.ErrorContains(t, err, "no name")

	_, err = LoadArgsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
