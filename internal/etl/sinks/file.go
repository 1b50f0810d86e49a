package sinks

import (
	"context"

	"github.com/chinazagideon/mock-generator/internal/etl"
	"github.com/chinazagideon/mock-generator/internal/format"
)

// ── File Sink ──────────────────────────────────────────────
// Writes the serialized dataset to Job.Target, a file path.

type fileSink struct{}

func init() { etl.RegisterSink(&fileSink{}) }

func (s *fileSink) Spec() etl.SinkSpec {
	opts := make([]string, len(format.Formats))
	for i, f := range format.Formats {
		opts[i] = string(f)
	}
	return etl.SinkSpec{
		Type:   "file",
		Label:  "File",
		Target: "path",
		ConfigFields: []etl.ConfigField{
			{Key: "format", Label: "Format", Type: "select", Options: opts, Default: string(format.JSON),
				Help: "Unknown formats are written as json"},
		},
	}
}

func (s *fileSink) Open(ctx context.Context, cfg etl.SinkConfig) (etl.Destination, error) {
	return &etl.FileDestination{Format: format.Normalize(format.Format(cfg.String("format")))}, nil
}
