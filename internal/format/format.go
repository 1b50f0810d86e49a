// Package format serializes datasets for files and sinks.
package format

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/chinazagideon/mock-generator/internal/record"
)

// Format names an output serialization.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	JS   Format = "js"
	TS   Format = "ts"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, CSV, JS, TS}

// Normalize maps a user-supplied name onto a supported format.
// Unknown names become JSON.
func Normalize(name Format) Format {
	f := Format(strings.ToLower(strings.TrimSpace(string(name))))
	for _, known := range Formats {
		if f == known {
			return f
		}
	}
	return JSON
}

// Extension returns the file extension for f, including the dot.
func Extension(f Format) string {
	return "." + string(Normalize(f))
}

// Serialize renders ds in format f.
func Serialize(ds record.Dataset, f Format) ([]byte, error) {
	switch Normalize(f) {
	case CSV:
		return toCSV(ds)
	case JS:
		return wrap(ds, "export const mockData = ", ";")
	case TS:
		return wrap(ds, "export const mockData = ", " as const;")
	default:
		return pretty(ds)
	}
}

// WriteFile serializes ds and writes it to path in one call, creating
// parent directories as needed.
func WriteFile(path string, ds record.Dataset, f Format) error {
	data, err := Serialize(ds, f)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func pretty(ds record.Dataset) ([]byte, error) {
	if ds == nil {
		ds = record.Dataset{}
	}
	out, err := json.MarshalIndentWithOption(ds, "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return out, nil
}

func wrap(ds record.Dataset, prefix, suffix string) ([]byte, error) {
	body, err := pretty(ds)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(prefix) + len(body) + len(suffix))
	buf.WriteString(prefix)
	buf.Write(body)
	buf.WriteString(suffix)
	return buf.Bytes(), nil
}

// ── CSV ────────────────────────────────────────────────────
// Columns come from the first record. Only cells containing a comma or a
// double quote are quoted, so plain values stay byte-identical to their
// textual form.

func toCSV(ds record.Dataset) ([]byte, error) {
	if len(ds) == 0 {
		return []byte{}, nil
	}
	headers := ds[0].Keys()
	var buf bytes.Buffer
	writeRow(&buf, headers)
	for _, rec := range ds {
		cells := make([]string, len(headers))
		for i, h := range headers {
			v, _ := rec.Get(h)
			cell, err := Cell(v)
			if err != nil {
				return nil, fmt.Errorf("csv column %q: %w", h, err)
			}
			cells[i] = cell
		}
		buf.WriteByte('\n')
		writeRow(&buf, cells)
	}
	return buf.Bytes(), nil
}

func writeRow(buf *bytes.Buffer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(quote(c))
	}
}

func quote(s string) string {
	if !strings.ContainsAny(s, `,"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Cell renders v as unquoted cell text. Nested records and lists are
// compact JSON.
func Cell(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case record.Record, []any, map[string]any:
		b, err := json.MarshalNoEscape(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprint(t), nil
	}
}
