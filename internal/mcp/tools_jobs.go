package mcpserver

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/chinazagideon/mock-generator/internal/service"
)

func (s *Server) registerJobTools() {
	s.mcp.AddTool(mcp.NewTool("create_job",
		mcp.WithDescription("Save a generation job: a schema (or preset) plus a sink it is written to. Jobs run on demand, on a cron schedule, or when their schema file changes."),
		mcp.WithString("name", mcp.Description("Unique job name"), mcp.Required()),
		mcp.WithString("schema", mcp.Description(schemaHelp)),
		mcp.WithString("schemaPath", mcp.Description("Path of a schema file, re-read on every run (alternative to schema)")),
		mcp.WithString("preset", mcp.Description("Preset name (alternative to schema)")),
		mcp.WithNumber("count", mcp.Description("Records per run")),
		mcp.WithNumber("seed", mcp.Description("Seed for reproducible runs (optional)")),
		mcp.WithString("additionalData", mcp.Description("JSON object merged into every record")),
		mcp.WithString("sinkType", mcp.Description("Sink type (use list_sinks)"), mcp.Required()),
		mcp.WithString("sinkConfigJSON", mcp.Description("Sink configuration as a JSON object, keys as listed by list_sinks")),
		mcp.WithString("target", mcp.Description("File path, table, collection or bucket to write to"), mcp.Required()),
		mcp.WithString("writeMode", mcp.Description("append (default) or replace")),
		mcp.WithString("triggerType", mcp.Description("manual (default), schedule or file_watch")),
		mcp.WithString("triggerConfig", mcp.Description("Cron expression for schedule, watched path for file_watch")),
	), s.handleCreateJob)

	s.mcp.AddTool(mcp.NewTool("run_job",
		mcp.WithDescription("Run a saved generation job now. Writes to the job's sink; replace mode deletes existing rows first."),
		mcp.WithString("job", mcp.Description("Job ID or name"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRunJob)

	s.mcp.AddTool(mcp.NewTool("list_jobs",
		mcp.WithDescription("List saved generation jobs with their last run status"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListJobs)

	s.mcp.AddTool(mcp.NewTool("list_run_logs",
		mcp.WithDescription("List the recent runs of a job"),
		mcp.WithString("job", mcp.Description("Job ID or name"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListRunLogs)

	s.mcp.AddTool(mcp.NewTool("list_sinks",
		mcp.WithDescription("List available sink types with their configuration fields, plus saved connections"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListSinks)
}

func (s *Server) handleCreateJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	doc, err := documentArg(args, "schema")
	if err != nil {
		return nil, err
	}
	extra, err := recordArg(args, "additionalData")
	if err != nil {
		return nil, fmt.Errorf("parse additionalData: %w", err)
	}

	// sinkConfigJSON may come as a string or as a raw JSON object
	var sinkConfig map[string]any
	switch v := args["sinkConfigJSON"].(type) {
	case string:
		if v != "" {
			if err := json.Unmarshal([]byte(v), &sinkConfig); err != nil {
				return nil, fmt.Errorf("parse sinkConfig: %w", err)
			}
		}
	case map[string]any:
		sinkConfig = v
	}

	triggerType := req.GetString("triggerType", "")
	job, err := s.generation.CreateJob(ctx, service.CreateJobInput{
		Name:           req.GetString("name", ""),
		Schema:         doc,
		SchemaPath:     req.GetString("schemaPath", ""),
		Preset:         req.GetString("preset", ""),
		Count:          intArg(args, "count", 0),
		Seed:           seedArg(args),
		AdditionalData: extra,
		SinkType:       req.GetString("sinkType", ""),
		SinkConfig:     sinkConfig,
		Target:         req.GetString("target", ""),
		WriteMode:      req.GetString("writeMode", ""),
		TriggerType:    triggerType,
		TriggerConfig:  req.GetString("triggerConfig", ""),
		Enabled:        triggerType != "" && triggerType != "manual",
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return jsonResult(job)
}

func (s *Server) handleRunJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("job", "")
	if ref == "" {
		return nil, fmt.Errorf("job is required")
	}
	result, err := s.generation.RunJob(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("run job: %w", err)
	}
	return jsonResult(result)
}

func (s *Server) handleListJobs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobs, err := s.generation.ListJobs()
	if err != nil {
		return nil, err
	}
	return jsonResult(jobs)
}

func (s *Server) handleListRunLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("job", "")
	if ref == "" {
		return nil, fmt.Errorf("job is required")
	}
	logs, err := s.generation.ListRunLogs(ref)
	if err != nil {
		return nil, err
	}
	return jsonResult(logs)
}

func (s *Server) handleListSinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := map[string]any{"sinks": s.generation.ListSinks()}
	if s.sinks != nil {
		conns, err := s.sinks.ListConnections()
		if err != nil {
			return nil, err
		}
		out["connections"] = conns
	}
	return jsonResult(out)
}
