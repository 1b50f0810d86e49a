package mcpserver

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/chinazagideon/mock-generator/internal/format"
	"github.com/chinazagideon/mock-generator/internal/generator"
	"github.com/chinazagideon/mock-generator/internal/presets"
)

// inlineLimit caps datasets returned in the tool result itself.
// Larger datasets must be written to outputPath.
const inlineLimit = 500

const schemaExample = "id: id\nname: name\namount:\n  type: floatRange\n  min: 10\n  max: 500\n  precision: 0.01\naddress:\n  street: address\n  city: city"

var schemaHelp = `Schema document as YAML or JSON text mapping field names to generator tags, e.g.
` + strconv.Quote(schemaExample) + `.
Nested mappings without a "type" key become nested objects. Use list_generators for the available tags.
Passing a JSON object instead of text also works but field order is then alphabetical.`

func (s *Server) registerGenerateTools() {
	s.mcp.AddTool(mcp.NewTool("generate_data",
		mcp.WithDescription("Generate a mock dataset from a schema or preset. Returns the serialized data, or writes it to outputPath and returns a summary."),
		mcp.WithString("schema", mcp.Description(schemaHelp)),
		mcp.WithString("preset", mcp.Description("Preset name instead of a schema (use list_presets)")),
		mcp.WithNumber("count", mcp.Description("Number of records (defaults to the preset count, else 10)")),
		mcp.WithNumber("seed", mcp.Description("Seed for reproducible output (optional)")),
		mcp.WithString("format", mcp.Description("Output format: json, csv, js, ts (unknown formats fall back to json)")),
		mcp.WithString("outputPath", mcp.Description("File to write (optional; required above 500 records)")),
		mcp.WithString("additionalData", mcp.Description("JSON object merged into every record, overriding generated fields")),
	), s.handleGenerateData)

	s.mcp.AddTool(mcp.NewTool("preview_records",
		mcp.WithDescription("Preview a few records and the inferred column types of a schema or preset without writing anything"),
		mcp.WithString("schema", mcp.Description(schemaHelp)),
		mcp.WithString("preset", mcp.Description("Preset name instead of a schema")),
		mcp.WithNumber("count", mcp.Description("Number of records (default 10, max 100)")),
		mcp.WithNumber("seed", mcp.Description("Seed for reproducible output (optional)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handlePreviewRecords)

	s.mcp.AddTool(mcp.NewTool("list_generators",
		mcp.WithDescription("List every generator tag usable in a schema, including the parameterized ones"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListGenerators)

	s.mcp.AddTool(mcp.NewTool("list_presets",
		mcp.WithDescription("List the built-in preset schemas with their default count, seed and format"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListPresets)
}

func (s *Server) handleGenerateData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sc, preset, err := schemaArgs(args)
	if err != nil {
		return nil, err
	}
	extra, err := recordArg(args, "additionalData")
	if err != nil {
		return nil, fmt.Errorf("parse additionalData: %w", err)
	}

	opts := generator.Options{
		Seed:           seedArg(args),
		Format:         format.Format(req.GetString("format", "")),
		OutputPath:     req.GetString("outputPath", ""),
		AdditionalData: extra,
	}
	count := 10
	if preset != nil {
		count = preset.Count
		if opts.Seed == nil {
			opts.Seed = preset.Seed
		}
		if opts.Format == "" {
			opts.Format = preset.Format
		}
	}
	count = intArg(args, "count", count)
	opts.Format = format.Normalize(opts.Format)

	if opts.OutputPath == "" {
		if count > inlineLimit {
			return nil, fmt.Errorf("count %d exceeds the inline limit of %d; set outputPath", count, inlineLimit)
		}
		ds, err := generator.Build(count, sc, opts)
		if err != nil {
			return nil, err
		}
		out, err := format.Serialize(ds, opts.Format)
		if err != nil {
			return nil, err
		}
		return textResult(string(out)), nil
	}

	ds, err := generator.GenerateData(count, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("generate data: %w", err)
	}
	summary := map[string]any{
		"records": len(ds),
		"path":    opts.OutputPath,
		"format":  opts.Format,
	}
	if info, err := os.Stat(opts.OutputPath); err == nil {
		summary["size"] = humanize.Bytes(uint64(info.Size()))
	}
	return jsonResult(summary)
}

func (s *Server) handlePreviewRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sc, preset, err := schemaArgs(args)
	if err != nil {
		return nil, err
	}
	seed := seedArg(args)
	if seed == nil && preset != nil {
		seed = preset.Seed
	}
	preview, err := s.generation.PreviewSchema(ctx, sc, intArg(args, "count", 10), seed)
	if err != nil {
		return nil, err
	}
	return jsonResult(preview)
}

func (s *Server) handleListGenerators(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(generator.List())
}

func (s *Server) handleListPresets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all, err := presets.All()
	if err != nil {
		return nil, err
	}
	type presetSummary struct {
		presets.Preset
		Fields []string `json:"fields"`
	}
	out := make([]presetSummary, len(all))
	for i, p := range all {
		out[i] = presetSummary{Preset: p, Fields: p.Schema.Names()}
	}
	return jsonResult(out)
}
