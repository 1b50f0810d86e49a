package mcpserver

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/chinazagideon/mock-generator/internal/service"
)

// Server is the MCP server for the mock generator.
// It exposes tools, resources, and prompts so AI agents can design
// schemas, generate datasets, and manage generation jobs.
type Server struct {
	mcp *server.MCPServer

	// Services (injected from app layer)
	generation *service.GenerationService
	sinks      *service.SinkService
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Version    string
	Generation *service.GenerationService
	Sinks      *service.SinkService
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		generation: deps.Generation,
		sinks:      deps.Sinks,
	}

	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s.mcp = server.NewMCPServer(
		"mock-generator",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerGenerateTools()
	s.registerJobTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}
