package app

import (
	"fmt"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/vk/gridflow/internal/parallelexecutor"
	"github.com/vk/gridflow/internal/workflow"
)

var runHeader = table.Row{
	"#",
	"Run",
	"State",
	"Duration",
	"Failed Node",
	"Error",
}

func renderRunSummary(report *parallelexecutor.Report) string {
	t := table.NewWriter()
	t.AppendHeader(runHeader)

	for _, r := range report.Runs {
		failedNode, errMsg := "", ""
		switch {
		case r.Err != nil:
			errMsg = r.Err.Error()
		case r.Workflow != nil && r.Workflow.Failed():
			cause := r.Workflow.Err()
			failedNode = cause.NodeName
			if cause.Cause != nil {
				errMsg = cause.Cause.Error()
			}
		}
		t.AppendRow(table.Row{
			r.Index,
			r.Name,
			string(r.State),
			r.Duration().Round(time.Millisecond),
			failedNode,
			errMsg,
		})
	}

	t.AppendFooter(table.Row{
		"",
		fmt.Sprintf("%d runs", report.Total),
		fmt.Sprintf("%d ok / %d failed / %d cancelled", report.Succeeded, report.Failed, report.Cancelled),
		report.Duration().Round(time.Millisecond),
		"",
		"",
	})
	return t.Render()
}

var orderHeader = table.Row{
	"#",
	"Node",
	"Type",
	"Depends On",
}

func renderExecutionOrder(wf *workflow.Workflow) string {
	t := table.NewWriter()
	t.AppendHeader(orderHeader)

	for i, uid := range wf.Order() {
		n, _ := wf.Node(uid)
		name, _ := wf.NameOf(uid)
		deps, _ := wf.Dependencies(uid)
		depNames := make([]string, 0, len(deps))
		for _, d := range deps {
			depName, _ := wf.NameOf(d.UID())
			depNames = append(depNames, depName)
		}
		t.AppendRow(table.Row{i + 1, name, n.TaskType(), fmt.Sprint(depNames)})
	}
	return t.Render()
}

func (a *App) printReport(report *parallelexecutor.Report) {
	fmt.Fprintln(a.outW, renderRunSummary(report))
	for _, r := range report.Runs {
		if r.Workflow == nil || len(r.Workflow.Outputs) == 0 {
			continue
		}
		fmt.Fprintf(a.outW, "outputs of run %d (%s):\n", r.Index, r.Name)
		keys := lo.Keys(r.Workflow.Outputs)
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(a.outW, "  %s = %v\n", k, r.Workflow.Outputs[k])
		}
	}
}
