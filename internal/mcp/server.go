// Package mcp exposes the incident memory over the Model Context
// Protocol, so external agents can search cases and read pattern
// statistics without going through the HTTP API.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/envops/incidentd/internal/memory"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes incident memory tools.
type Server struct {
	memory *memory.Engine
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(mem *memory.Engine) *Server {
	s := &Server{memory: mem}

	s.mcp = server.NewMCPServer(
		"incidentd",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchIncidentsTool, s.handleSearchIncidents)
	s.mcp.AddTool(incidentPatternsTool, s.handleIncidentPatterns)
	s.mcp.AddTool(memoryStatsTool, s.handleMemoryStats)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP
// protocol messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
