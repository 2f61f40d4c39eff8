// Package mcp provides the bake MCP server, exposing a recipe's tasks as
// tools and publishing model instructions.
package mcp

import (
	_ "embed"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rv178/baker"
	"github.com/rv178/baker/internal/recipe"
	"github.com/rv178/baker/internal/report"
	"github.com/rv178/baker/internal/workflow"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	mu     sync.Mutex // runs are sequential
	recipe *recipe.Recipe
	engine *workflow.Engine
	store  report.Store
}

// NewServer creates an MCP server with all bake tools registered. The
// engine's runner should capture output: stdio belongs to the protocol.
func NewServer(engine *workflow.Engine, store report.Store) *mcp.Server {
	h := &handler{
		recipe: engine.Recipe,
		engine: engine,
		store:  store,
	}

	opts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "bake", Version: baker.Version}, opts)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "bake_tasks",
		Description: "List the recipe's pre hooks, build command and custom tasks in execution order.",
	}, h.tasksHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "bake_run",
		Description: `Run recipe tasks and report their exit statuses.

Without a task name, runs every pre hook, then the build, then every custom task marked run = true.
With a task name, runs only that custom task. Commands run one at a time; a command that cannot
be launched aborts the run. Output is captured and stored for drill-down via bake_inspect.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "bake_inspect",
		Description: "Show the captured output and exit statuses of a stored bake_run result.",
	}, h.inspectHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
