package etl

import (
	"context"
	"fmt"

	"github.com/chinazagideon/mock-generator/internal/format"
	"github.com/chinazagideon/mock-generator/internal/record"
)

// ── Destination ────────────────────────────────────────────
// A Destination writes a dataset into a target inside an opened sink.

// WriteMode determines how records are written to the destination.
type WriteMode string

const (
	WriteReplace WriteMode = "replace" // clear the target, insert fresh
	WriteAppend  WriteMode = "append"  // add rows without deleting existing
)

// ParseWriteMode maps "" to append and rejects unknown modes.
func ParseWriteMode(s string) (WriteMode, error) {
	switch WriteMode(s) {
	case "", WriteAppend:
		return WriteAppend, nil
	case WriteReplace:
		return WriteReplace, nil
	default:
		return "", fmt.Errorf("unknown write mode %q (want replace or append)", s)
	}
}

// Destination writes datasets to a target system.
type Destination interface {
	Write(ctx context.Context, target string, ds record.Dataset, mode WriteMode) (int, error)
	Close() error
}

// ── File Destination ───────────────────────────────────────
// Writes the serialized dataset to a file. Files are always rewritten as a
// whole, so both modes replace the previous content.

// FileDestination implements Destination for local files.
type FileDestination struct {
	Format format.Format
}

func (d *FileDestination) Write(ctx context.Context, target string, ds record.Dataset, mode WriteMode) (int, error) {
	if target == "" {
		return 0, fmt.Errorf("file sink: target path is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := format.WriteFile(target, ds, d.Format); err != nil {
		return 0, err
	}
	return len(ds), nil
}

func (d *FileDestination) Close() error { return nil }
