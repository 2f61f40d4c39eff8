package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rv178/baker/internal/report"
)

type inspectParams struct {
	RunID string `json:"run_id" jsonschema:"the run ID from a bake_run result"`
	Task  string `json:"task,omitempty" jsonschema:"task name to show. Leave empty to show every task of the run."`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}

	result, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	tasks := result.Tasks
	if params.Task != "" {
		t, ok := result.Task(params.Task)
		if !ok {
			return textResult(fmt.Sprintf("Task %s did not run in run %s (%s).", params.Task, params.RunID, result.Kind))
		}
		tasks = []report.TaskResult{*t}
	}

	return textResult(formatInspectOutput(result, tasks))
}

func formatInspectOutput(rr *report.RunResult, tasks []report.TaskResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s (%s)\n", rr.ID, rr.Kind)

	for _, t := range tasks {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "%s (%s): %s\n", t.Name, t.Phase, t.Status())
		for _, c := range t.Commands {
			fmt.Fprintf(&b, "$ %s\n", strings.Join(c.Argv, " "))
			if c.Error != "" {
				fmt.Fprintf(&b, "  not launched: %s\n", c.Error)
				continue
			}
			fmt.Fprintf(&b, "  exit %d in %dms\n", c.ExitCode, c.DurationMillis)
			writeStream(&b, "stdout", c.Stdout)
			writeStream(&b, "stderr", c.Stderr)
			if c.Truncated {
				fmt.Fprintln(&b, "  (output truncated)")
			}
		}
	}

	return b.String()
}

func writeStream(b *strings.Builder, name, s string) {
	if s == "" {
		return
	}
	fmt.Fprintf(b, "  %s:\n", name)
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		fmt.Fprintf(b, "    %s\n", line)
	}
}
