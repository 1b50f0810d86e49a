package schema

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chinazagideon/mock-generator/internal/record"
)

// ErrInvalidDocument is returned when a schema document is not a mapping.
var ErrInvalidDocument = errors.New("schema document must be a mapping of field name to spec")

// ── Document loading ───────────────────────────────────────
// Documents are YAML or JSON (JSON is valid YAML). The yaml.v3 node API
// keeps key order, which Go maps would lose.

// LoadFile reads and parses a schema document from disk.
func LoadFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML or JSON schema document.
func Parse(data []byte) (Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if doc.Kind == 0 {
		return Schema{}, nil
	}
	return FromNode(&doc)
}

// FromNode interprets a decoded yaml.v3 node (document or mapping).
func FromNode(node *yaml.Node) (Schema, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, ErrInvalidDocument
	}
	v, err := record.FromNode(node)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return FromRecord(v.(record.Record)), nil
}

// UnmarshalYAML lets a Schema be embedded in larger YAML documents.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := FromNode(node)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// FromRecord interprets an ordered document. It never fails: specs it
// cannot understand become leaves that resolve to the fallback generator.
func FromRecord(doc record.Record) Schema {
	s := make(Schema, 0, doc.Len())
	for _, f := range doc.Fields() {
		s = append(s, Field{Name: f.Key, Spec: specOf(f.Value)})
	}
	return s
}

// FromMap interprets an unordered document. Go maps carry no order, so
// fields are sorted by name; prefer Parse or FromRecord when order matters.
func FromMap(doc map[string]any) Schema {
	return FromRecord(recordFromMap(doc))
}

func recordFromMap(m map[string]any) record.Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var r record.Record
	for _, k := range keys {
		v := m[k]
		if sub, ok := v.(map[string]any); ok {
			v = recordFromMap(sub)
		}
		r.Set(k, v)
	}
	return r
}

func specOf(v any) Spec {
	switch t := v.(type) {
	case string:
		return Leaf{Tag: t}
	case record.Record:
		typ, ok := t.Get("type")
		if !ok {
			return Nested{Schema: FromRecord(t)}
		}
		// a non-string type keeps its params but names no generator
		tag, _ := typ.(string)
		return Leaf{Tag: tag, Params: paramsOf(t)}
	default:
		// lists, numbers, booleans and null carry no tag
		return Leaf{}
	}
}

func paramsOf(doc record.Record) *Params {
	p := &Params{}
	for _, f := range doc.Fields() {
		switch f.Key {
		case "type":
		case "options":
			if opts, ok := f.Value.([]any); ok {
				p.Options = opts
				continue
			}
			p.setExtra(f.Key, f.Value)
		case "min":
			p.Min = numberOrExtra(p, f)
		case "max":
			p.Max = numberOrExtra(p, f)
		case "precision":
			p.Precision = numberOrExtra(p, f)
		case "startDate":
			p.StartDate = dateString(f.Value)
		case "endDate":
			p.EndDate = dateString(f.Value)
		case "length":
			if n := numberOrExtra(p, f); n != nil {
				l := int(*n)
				p.Length = &l
			}
		default:
			p.setExtra(f.Key, f.Value)
		}
	}
	return p
}

func (p *Params) setExtra(k string, v any) {
	if p.Extra == nil {
		p.Extra = make(map[string]any)
	}
	p.Extra[k] = v
}

func numberOrExtra(p *Params, f record.Field) *float64 {
	switch t := f.Value.(type) {
	case int:
		v := float64(t)
		return &v
	case float64:
		return &t
	case string:
		if v, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return &v
		}
	}
	p.setExtra(f.Key, f.Value)
	return nil
}

func dateString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}
