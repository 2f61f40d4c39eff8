package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rv178/baker/internal/report"
)

type runParams struct {
	Task string `json:"task,omitempty" jsonschema:"name of a custom task to run. Leave empty to run the default set (pre hooks, build, auto-run tasks)."`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	var args []string
	if params.Task != "" {
		args = []string{params.Task}
	}

	h.mu.Lock()
	sum, err := h.engine.Run(ctx, args)
	h.mu.Unlock()

	if sum == nil {
		return errorResult(fmt.Sprintf("run failed: %v", err))
	}

	// Save results for bake_inspect.
	_ = h.store.Save(sum.RunResult)

	text := formatRun(sum.RunResult)
	if err != nil {
		return errorResult(text)
	}
	return textResult(text)
}

func formatRun(rr *report.RunResult) string {
	var b strings.Builder

	if rr.Failed() {
		fmt.Fprintln(&b, "Status: FAIL")
	} else {
		fmt.Fprintln(&b, "Status: PASS")
	}
	fmt.Fprintf(&b, "Run: %s\n", rr.ID)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Tasks:")
	for _, t := range rr.Tasks {
		fmt.Fprintf(&b, "  %s (%s): %s, %dms\n", t.Name, t.Phase, t.Status(), t.DurationMillis)
	}
	fmt.Fprintln(&b)

	if rr.Aborted {
		fmt.Fprintf(&b, "Aborted: %s\n", rr.Error)
		fmt.Fprintln(&b)
	}

	fmt.Fprintf(&b, "Inspect with bake_inspect(run_id=%q, task=\"<name>\").\n", rr.ID)
	return b.String()
}
