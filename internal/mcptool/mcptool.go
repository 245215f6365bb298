// mcptool.go — MCP server exposing the engine to agents over stdio.
// Composition only: the handlers live in tools.go.
package mcptool

import (
	"context"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dev-console/pagectx/internal/engine"
)

const instructions = `pagectx observes a web page under development and assembles context about it.
Start with page_context and a plain description of your task. Use resolve_route
to find the source files behind a route and recent_requests to inspect traffic.`

// New creates the MCP server with every tool registered.
func New(eng *engine.Engine, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"pagectx",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	NewTools(eng).Register(s)
	return s
}

// Register adds every tool to s.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(t.pageContextTool(), t.handlePageContext)
	s.AddTool(t.resolveRouteTool(), t.handleResolveRoute)
	s.AddTool(t.recentRequestsTool(), t.handleRecentRequests)
	s.AddTool(t.listProjectsTool(), t.handleListProjects)
	s.AddTool(t.clearCaptureTool(), t.handleClearCapture)
}

// Serve speaks MCP over in/out until ctx is done or in closes. Protocol
// errors go to errLog; stdout carries only protocol frames.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, errLog *log.Logger) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(errLog)
	return stdio.Listen(ctx, in, out)
}
