package integrationtests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/app"
	"github.com/vk/gridflow/internal/flowerr"
	"github.com/vk/gridflow/internal/parallelexecutor"
)

// Test for: invalid definitions are rejected before anything runs.
func TestErrorHandling_InvalidDefinitionIsRejected(t *testing.T) {
	cases := map[string]string{
		"syntax error": `step "counter" "a" {`,
		"unknown type": `step "nope" "a" {}`,
		"unknown dependency": `
			step "counter" "a" {
				depends_on = ["missing"]
			}`,
		"cycle": `
			step "counter" "a" {
				depends_on = ["b"]
			}
			step "counter" "b" {
				depends_on = ["a"]
			}`,
		"duplicate step": `
			step "counter" "a" {}
			step "counter" "a" {}`,
		"arguments for unknown step": `
			step "counter" "a" {}
			execution "x" {
				arguments "b" { v = 1 }
			}`,
	}

	for name, gridHCL := range cases {
		t.Run(name, func(t *testing.T) {
			res := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL}, app.Config{})
			require.Error(t, res.Err)
			assert.Nil(t, res.Report)
			assert.Zero(t, res.Module.Counter.Calls())
		})
	}
}

// Test for: the cycle error keeps its kind through the app.
func TestErrorHandling_CycleIsTyped(t *testing.T) {
	gridHCL := `
		step "counter" "a" {
			depends_on = ["a"]
		}`
	res := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL}, app.Config{})
	assert.ErrorIs(t, res.Err, flowerr.ErrCycle)
}

// Test for: a failing step halts its own run and no other.
func TestErrorHandling_FailureIsIsolatedPerRun(t *testing.T) {
	gridHCL := `
		step "fail_when" "check" {
			arguments { value = "ok" }
		}
		step "counter" "after" {
			depends_on = ["check"]
		}

		execution "good" {}
		execution "bad" {
			arguments "check" { fail = true }
		}
		execution "also_good" {}
	`
	res := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL}, app.Config{Workers: 1})
	require.NoError(t, res.Err)

	assert.Equal(t, []int{0, 2}, res.Report.SuccessfulRuns())
	assert.Equal(t, []int{1}, res.Report.FailedRuns())
	assert.EqualValues(t, 2, res.Module.Counter.Calls(), "the failed run must not reach its dependents")

	bad := res.Report.Runs[1]
	require.NotNil(t, bad.Workflow)
	assert.Equal(t, "check", bad.Workflow.Err().NodeName)
}

// Test for: fail-fast stops dispatching after the first failure.
func TestErrorHandling_FailFastCancelsPendingRuns(t *testing.T) {
	gridHCL := `
		step "fail_when" "check" {}
		step "counter" "count" {
			depends_on = ["check"]
		}

		execution "bad" {
			arguments "check" { fail = true }
		}
		execution "later" {}
		execution "latest" {}
	`
	res := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL}, app.Config{Workers: 1, FailFast: true})
	require.NoError(t, res.Err)

	assert.Equal(t, 1, res.Report.Failed)
	assert.Equal(t, 2, res.Report.Cancelled)
	assert.Equal(t, parallelexecutor.RunCancelled, res.Report.Runs[2].State)
	assert.Zero(t, res.Module.Counter.Calls())
}
