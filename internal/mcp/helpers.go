package mcpserver

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/chinazagideon/mock-generator/internal/presets"
	"github.com/chinazagideon/mock-generator/internal/record"
	"github.com/chinazagideon/mock-generator/internal/schema"
)

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndentWithOption(v, "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }

// intArg reads a JSON number argument.
func intArg(args map[string]any, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

// seedArg reads an optional seed; absent means an unseeded run.
func seedArg(args map[string]any) *int64 {
	if v, ok := args["seed"].(float64); ok {
		seed := int64(v)
		return &seed
	}
	return nil
}

// documentArg returns a schema document argument as text. Agents may send
// either a YAML/JSON string, which keeps field order, or a JSON object,
// whose keys arrive unordered and are sorted.
func documentArg(args map[string]any, key string) (string, error) {
	switch v := args[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case map[string]any:
		out, err := yaml.Marshal(schema.FromMap(v))
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", key, err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("%s must be a string or an object", key)
	}
}

// recordArg reads a JSON object argument (or its JSON text) as a record.
func recordArg(args map[string]any, key string) (record.Record, error) {
	switch v := args[key].(type) {
	case nil:
		return record.Record{}, nil
	case string:
		if v == "" {
			return record.Record{}, nil
		}
		return record.Parse([]byte(v))
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return record.Record{}, err
		}
		return record.Parse(b)
	default:
		return record.Record{}, fmt.Errorf("%s must be an object", key)
	}
}

// schemaArgs resolves the "schema" or "preset" argument. A preset also
// supplies the defaults for count, seed and format.
func schemaArgs(args map[string]any) (schema.Schema, *presets.Preset, error) {
	if name, _ := args["preset"].(string); name != "" {
		p, err := presets.Get(name)
		if err != nil {
			return nil, nil, err
		}
		return p.Schema, &p, nil
	}
	doc, err := documentArg(args, "schema")
	if err != nil {
		return nil, nil, err
	}
	if doc == "" {
		return nil, nil, fmt.Errorf("schema or preset is required")
	}
	s, err := schema.Parse([]byte(doc))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid schema: %w", err)
	}
	return s, nil, nil
}
