package record

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ── Record ─────────────────────────────────────────────────
// Common intermediate data format.
// The generator emits Records, serializers and sinks consume them.
// Unlike a Go map, a Record keeps insertion order so output columns follow
// the schema that produced them.

// Field is a single key/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered mapping from field name to value. Values are scalars
// (string, int, float64, bool, nil), []any, or nested Records.
type Record struct {
	fields []Field
}

// Dataset is an ordered sequence of Records. Identity is positional.
type Dataset []Record

// New creates a Record from alternating key/value pairs.
// It panics on an odd argument count or a non-string key; use it for literals only.
func New(kv ...any) Record {
	if len(kv)%2 != 0 {
		panic("record.New: odd number of arguments")
	}
	var r Record
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("record.New: key %v is not a string", kv[i]))
		}
		r.Set(k, kv[i+1])
	}
	return r
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.fields) }

// Fields returns the fields in order. The slice must not be modified.
func (r Record) Fields() []Field { return r.fields }

// Keys returns the field names in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set stores value under key. An existing key keeps its position.
func (r *Record) Set(key string, value any) {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Merge sets every field of other on r, in other's order.
func (r *Record) Merge(other Record) {
	for _, f := range other.fields {
		r.Set(f.Key, f.Value)
	}
}

// Clone returns a deep copy: nested Records and slices are copied too.
func (r Record) Clone() Record {
	out := Record{fields: make([]Field, len(r.fields))}
	for i, f := range r.fields {
		out.fields[i] = Field{Key: f.Key, Value: cloneValue(f.Value)}
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return t.Clone()
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = cloneValue(e)
		}
		return cp
	default:
		return v
	}
}

// ToMap converts the Record into plain maps, recursively.
// Order is lost; use it only for consumers that do not care (SDK marshalers).
func (r Record) ToMap() map[string]any {
	m := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		m[f.Key] = toPlain(f.Value)
	}
	return m
}

func toPlain(v any) any {
	switch t := v.(type) {
	case Record:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = toPlain(e)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the Record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.MarshalNoEscape(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.MarshalNoEscape(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Record{}
		return nil
	}
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Parse decodes a JSON or YAML object into a Record, keeping key order.
// Nested objects become nested Records.
func Parse(data []byte) (Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Record{}, fmt.Errorf("parse record: %w", err)
	}
	if doc.Kind == 0 {
		return Record{}, nil
	}
	node := &doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return Record{}, fmt.Errorf("parse record: expected an object, got %s", kindName(node.Kind))
	}
	v, err := FromNode(node)
	if err != nil {
		return Record{}, err
	}
	return v.(Record), nil
}

// FromNode converts a decoded YAML node into Record / []any / scalar values.
func FromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		var r Record
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := FromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			r.Set(node.Content[i].Value, v)
		}
		return r, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, c := range node.Content {
			v, err := FromNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.AliasNode:
		return FromNode(node.Alias)
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode value at line %d: %w", node.Line, err)
		}
		return v, nil
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "list"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
