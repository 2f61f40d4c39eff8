package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rv178/baker/internal/recipe"
)

type tasksParams struct{}

func (h *handler) tasksHandler(ctx context.Context, req *mcp.CallToolRequest, _ tasksParams) (*mcp.CallToolResult, any, error) {
	return textResult(formatTasks(h.recipe))
}

func formatTasks(r *recipe.Recipe) string {
	var b strings.Builder

	fmt.Fprintln(&b, "Pre hooks:")
	if len(r.Pre) == 0 {
		fmt.Fprintln(&b, "  (none)")
	}
	for _, t := range r.Pre {
		fmt.Fprintf(&b, "  %s: %s\n", t.Name, t.Command)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Build:")
	if r.Build.Command == "" {
		fmt.Fprintln(&b, "  (empty)")
	} else {
		fmt.Fprintf(&b, "  %s\n", r.Build.Command)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Custom tasks:")
	if len(r.Custom) == 0 {
		fmt.Fprintln(&b, "  (none)")
	}
	for _, t := range r.Custom {
		if t.AutoRun {
			fmt.Fprintf(&b, "  %s (default): %s\n", t.Name, t.Command)
		} else {
			fmt.Fprintf(&b, "  %s: %s\n", t.Name, t.Command)
		}
	}

	return b.String()
}
