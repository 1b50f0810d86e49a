package app

import (
	"context"
	"log"

	mcpserver "github.com/chinazagideon/mock-generator/internal/mcp"
)

// ServeMCP runs the app as an MCP server on stdin/stdout. Triggered jobs
// keep running in the background while the server is up. Logs go to
// stderr so they never interleave with the protocol stream.
func (a *App) ServeMCP(ctx context.Context) error {
	a.Generation.RestartWatchers(ctx)

	mcpSrv := mcpserver.New(mcpserver.Deps{
		Version:    Version,
		Generation: a.Generation,
		Sinks:      a.Sinks,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	return mcpSrv.ServeStdio()
}
