package integrationtests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/app"
	"github.com/vk/gridflow/internal/testutil"
)

// Test for: a step waits for every step it depends on.
func TestDagConcurrency_FanInSynchronization(t *testing.T) {
	gridHCL := `
		step "sleeper" "A" {
			arguments { id = "A" }
		}
		step "sleeper" "B" {
			arguments { id = "B" }
		}
		step "sleeper" "C" {
			arguments { id = "C" }
		}
		step "sleeper" "D" {
			arguments { id = "D" }
			depends_on = ["sleeper.A", "sleeper.B", "sleeper.C"]
		}
	`
	res := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL}, app.Config{})
	require.NoError(t, res.Err)
	require.Equal(t, 1, res.Report.Succeeded)

	records := res.Module.Sleeper.Records()
	require.Len(t, records, 4)
	for _, id := range []string{"A", "B", "C"} {
		assert.False(t, records["D"].Start.Before(records[id].End), "D started before %s finished", id)
	}
}

// Test for: steps of one run never overlap.
func TestDagConcurrency_StepsOfOneRunAreSequential(t *testing.T) {
	gridHCL := `
		step "sleeper" "A" {
			arguments { id = "A" }
		}
		step "sleeper" "B" {
			arguments { id = "B" }
		}
	`
	res := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL}, app.Config{})
	require.NoError(t, res.Err)
	assert.False(t, testutil.AnyOverlap(res.Module.Sleeper.Records()))
}

// Test for: independent executions run at the same time when workers allow.
func TestDagConcurrency_ExecutionsRunInParallel(t *testing.T) {
	gridHCL := `
		step "sleeper" "work" {}

		execution "one" {
			arguments "work" { id = "one" }
		}
		execution "two" {
			arguments "work" { id = "two" }
		}
		execution "three" {
			arguments "work" { id = "three" }
		}
	`
	res := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL}, app.Config{Workers: 3})
	require.NoError(t, res.Err)
	require.Equal(t, 3, res.Report.Succeeded)

	records := res.Module.Sleeper.Records()
	require.Len(t, records, 3)
	assert.True(t, testutil.AnyOverlap(records), "expected executions to overlap")
}

// Test for: a single worker runs executions one after another.
func TestDagConcurrency_SingleWorkerIsSequential(t *testing.T) {
	gridHCL := `
		step "sleeper" "work" {}

		execution "one" {
			arguments "work" { id = "one" }
		}
		execution "two" {
			arguments "work" { id = "two" }
		}
	`
	res := runIntegrationTest(t, map[string]string{"main.hcl": gridHCL}, app.Config{Workers: 1})
	require.NoError(t, res.Err)
	assert.False(t, testutil.AnyOverlap(res.Module.Sleeper.Records()))
}
