// Package schema describes how a single mock record is shaped.
//
// A Schema is an ordered list of fields. Each field carries a Spec, which is
// either a Leaf (a generator tag, optionally with parameters) or a Nested
// schema that produces a sub-record. Go callers build schemas explicitly with
// Tag, With and Nest; documents loaded with Parse use the shape rule instead:
// a mapping without a "type" key is a nested schema.
package schema

import "fmt"

// Spec is the tagged union of field specifications: Leaf or Nested.
type Spec interface {
	isSpec()
}

// Leaf names a registered generator tag. Params is nil for a plain tag.
type Leaf struct {
	Tag    string
	Params *Params
}

// Nested generates a sub-record from its own schema.
type Nested struct {
	Schema Schema
}

func (Leaf) isSpec()   {}
func (Nested) isSpec() {}

// Parameterized reports whether the leaf was written as {type: ..., ...}.
func (l Leaf) Parameterized() bool { return l.Params != nil }

// Params holds the recognised parameters of a parameterized leaf.
// Numeric pointers are nil when the key was absent from the document.
type Params struct {
	Options   []any
	Min       *float64
	Max       *float64
	Precision *float64
	StartDate string
	EndDate   string
	Length    *int
	// Extra keeps keys no generator reads, so documents round-trip.
	Extra map[string]any
}

// Field is one named entry of a Schema.
type Field struct {
	Name string
	Spec Spec
}

// Schema is an ordered mapping of field name to Spec.
type Schema []Field

// New builds a Schema from fields.
func New(fields ...Field) Schema { return Schema(fields) }

// F pairs a field name with its spec.
func F(name string, spec Spec) Field { return Field{Name: name, Spec: spec} }

// Tag is a plain leaf.
func Tag(tag string) Leaf { return Leaf{Tag: tag} }

// With is a parameterized leaf.
func With(tag string, p Params) Leaf { return Leaf{Tag: tag, Params: &p} }

// Nest wraps a sub-schema.
func Nest(fields ...Field) Nested { return Nested{Schema: Schema(fields)} }

// Names returns field names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the spec for name.
func (s Schema) Lookup(name string) (Spec, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Spec, true
		}
	}
	return nil, false
}

// Tags returns every leaf tag used by the schema, depth first, without duplicates.
func (s Schema) Tags() []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(Schema)
	walk = func(sc Schema) {
		for _, f := range sc {
			switch sp := f.Spec.(type) {
			case Leaf:
				if !seen[sp.Tag] {
					seen[sp.Tag] = true
					out = append(out, sp.Tag)
				}
			case Nested:
				walk(sp.Schema)
			}
		}
	}
	walk(s)
	return out
}

// Float is a convenience for building Params literals.
func Float(v float64) *float64 { return &v }

// Int is a convenience for building Params literals.
func Int(v int) *int { return &v }

func (l Leaf) String() string {
	if l.Params == nil {
		return l.Tag
	}
	return fmt.Sprintf("%s(...)", l.Tag)
}
