package etl

import "github.com/chinazagideon/mock-generator/internal/record"

// ── Columns ────────────────────────────────────────────────
// Tabular sinks need a flat column layout. Generated records are already
// ordered, so the layout is read off the dataset itself.

// Column type hints.
const (
	TypeText    = "text"
	TypeInteger = "integer"
	TypeReal    = "real"
	TypeBoolean = "boolean"
	TypeJSON    = "json"
)

// Column describes a single column of a dataset.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"` // "text" | "integer" | "real" | "boolean" | "json"
}

// InferColumns returns the columns of the first record, typed by the first
// non-null value found for each.
func InferColumns(ds record.Dataset) []Column {
	if len(ds) == 0 {
		return nil
	}
	keys := ds[0].Keys()
	cols := make([]Column, len(keys))
	for i, k := range keys {
		cols[i] = Column{Name: k, Type: TypeText}
		for _, rec := range ds {
			if v, ok := rec.Get(k); ok && v != nil {
				cols[i].Type = typeOf(v)
				break
			}
		}
	}
	return cols
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func typeOf(v any) string {
	switch v.(type) {
	case int, int32, int64:
		return TypeInteger
	case float32, float64:
		return TypeReal
	case bool:
		return TypeBoolean
	case string:
		return TypeText
	default:
		return TypeJSON
	}
}
