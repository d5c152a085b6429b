package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/ccw/internal/modes"
	"github.com/dshills/ccw/internal/review"
	"github.com/dshills/ccw/internal/version"
)

const (
	toolAnalyze   = "analyze"
	toolListModes = "list_modes"
)

// Server exposes the analysis pipeline as MCP tools.
type Server struct {
	engine   *review.Engine
	registry *modes.Registry
	mcp      *server.MCPServer
}

// New creates a Server with the analyze and list_modes tools registered.
func New(engine *review.Engine, registry *modes.Registry) *Server {
	s := &Server{
		engine:   engine,
		registry: registry,
		mcp: server.NewMCPServer(
			version.Name,
			version.Version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	ids := make([]string, 0)
	for _, d := range s.registry.List() {
		ids = append(ids, d.ID)
	}

	s.mcp.AddTool(mcp.NewTool(toolAnalyze,
		mcp.WithDescription("Send code or a diff to the local model using one of the analysis modes"),
		mcp.WithString("mode", mcp.Description("Analysis mode, one of: "+strings.Join(ids, ", ")+". Unknown modes use "+modes.DefaultID)),
		mcp.WithString("body", mcp.Description("Code or diff to analyze")),
		mcp.WithString("question", mcp.Description("Question about the code; required by ask")),
		mcp.WithString("criteria", mcp.Description("Acceptance criteria document; required by criteria modes")),
		mcp.WithString("source", mcp.Description("Where the body came from, e.g. a file path")),
	), s.handleAnalyze)

	s.mcp.AddTool(mcp.NewTool(toolListModes,
		mcp.WithDescription("List the available analysis modes and the inputs they need"),
	), s.handleListModes)
}

// ServeStdio serves MCP over standard input and output until the client
// disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	def := s.registry.Lookup(req.GetString("mode", ""))
	res, err := s.engine.Run(ctx, def, review.Input{
		Body:     req.GetString("body", ""),
		Question: req.GetString("question", ""),
		Criteria: req.GetString("criteria", ""),
		Source:   req.GetString("source", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", def.ID, err)), nil
	}

	switch res.Status {
	case review.StatusSkipped:
		return mcp.NewToolResultText(fmt.Sprintf("Context too large. Skipping... (context window %d)", res.ContextWindow)), nil
	case review.StatusExhausted:
		return mcp.NewToolResultError(fmt.Sprintf("no reply from the model after %d attempts", res.Attempts)), nil
	}
	return mcp.NewToolResultText(res.Text), nil
}

func (s *Server) handleListModes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, d := range s.registry.List() {
		fmt.Fprintf(&b, "%s\t%s", d.ID, d.Description)
		var needs []string
		if d.RequiresQuestion {
			needs = append(needs, "question")
		}
		if d.RequiresCriteria {
			needs = append(needs, "criteria")
		}
		if d.UsesBody() {
			needs = append(needs, "body")
		}
		if len(needs) > 0 {
			fmt.Fprintf(&b, " (needs %s)", strings.Join(needs, ", "))
		}
		b.WriteByte('\n')
	}
	return mcp.NewToolResultText(b.String()), nil
}
