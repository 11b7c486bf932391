package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the qmood analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all qmood tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "qmood",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds the qmood tools to the server.
func (s *Server) registerTools() {
	// C++ sources
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_qmood",
		Description: describeQMOOD(),
	}, handleAnalyzeQMOOD)

	// Declaration dumps
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_qmood_dump",
		Description: describeQMOODDump(),
	}, handleAnalyzeQMOODDump)
}
