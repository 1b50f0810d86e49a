package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("design_schema",
		mcp.WithPromptDescription("Guide through designing a schema for a mock dataset and generating it"),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("What the records represent, e.g. 'card payments for a marketplace'"),
			mcp.RequiredArgument(),
		),
	), s.handleDesignSchemaPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("seed_database",
		mcp.WithPromptDescription("Set up a job that fills a database table with mock data"),
		mcp.WithArgument("sinkType",
			mcp.ArgumentDescription("Sink type (e.g. sqlite, postgres, mongodb)"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("target",
			mcp.ArgumentDescription("Table, collection or bucket to fill"),
			mcp.RequiredArgument(),
		),
	), s.handleSeedDatabasePrompt)
}

func (s *Server) handleDesignSchemaPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	description := req.Params.Arguments["description"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Design a schema for: %s", description),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Design a mock dataset schema for "%s". Follow these steps:

1. Use list_presets to check whether a preset already covers it
2. Use list_generators to pick a tag for each field; use enum, numberRange, floatRange, dateRange or stringLength where fixed tags do not fit
3. Group related fields into nested mappings (e.g. an address object)
4. Check the result with preview_records using a seed
5. Generate the final dataset with generate_data, keeping the same seed for reproducible output`, description),
				},
			},
		},
	}, nil
}

func (s *Server) handleSeedDatabasePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sinkType := req.Params.Arguments["sinkType"]
	target := req.Params.Arguments["target"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Seed %s %s with mock data", sinkType, target),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Fill "%s" in a %s sink with mock data. Follow these steps:

1. Use list_sinks to see the configuration fields for %s and any saved connections
2. Design or pick a schema whose fields match the target's columns (preview_records helps)
3. Create a job with create_job (sinkType "%s", target "%s"); use writeMode "replace" to start from an empty target
4. Run it with run_job and confirm rowsWritten matches the requested count`, target, sinkType, sinkType, sinkType, target),
				},
			},
		},
	}, nil
}
