package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/chinazagideon/mock-generator/internal/generator"
	"github.com/chinazagideon/mock-generator/internal/presets"
)

const (
	generatorsURI    = "mockgen://generators"
	presetURIPrefix  = "mockgen://presets/"
	presetURITemplate = presetURIPrefix + "{name}"
)

func (s *Server) registerResources() {
	// ── mockgen://generators ───────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		generatorsURI,
		"Generator Catalogue",
		mcp.WithMIMEType("application/json"),
	), s.handleGeneratorsResource)

	// ── mockgen://presets/{name} ───────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			presetURITemplate,
			"Preset Schema",
		),
		s.handlePresetResource,
	)
}

func (s *Server) handleGeneratorsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(generator.List(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      generatorsURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handlePresetResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	name := strings.TrimPrefix(uri, presetURIPrefix)
	if name == "" || name == uri {
		return nil, fmt.Errorf("could not extract preset name from URI: %s", uri)
	}
	p, err := presets.Get(name)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(p.Schema)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/yaml",
			Text:     string(data),
		},
	}, nil
}
