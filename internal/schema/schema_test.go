package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chinazagideon/mock-generator/internal/schema"
)

const merchantDoc = `
id: id
name: companyName
status:
  type: enum
  options: [active, inactive]
averageAmount:
  type: floatRange
  min: 100
  max: 50000
  precision: 0.01
owner:
  name: name
  email: email
`

func TestParseShapes(t *testing.T) {
	s, err := schema.Parse([]byte(merchantDoc))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "status", "averageAmount", "owner"}, s.Names())

	spec, _ := s.Lookup("name")
	assert.Equal(t, schema.Tag("companyName"), spec)

	spec, _ = s.Lookup("status")
	leaf, ok := spec.(schema.Leaf)
	require.True(t, ok)
	assert.Equal(t, "enum", leaf.Tag)
	assert.Equal(t, []any{"active", "inactive"}, leaf.Params.Options)

	spec, _ = s.Lookup("averageAmount")
	leaf = spec.(schema.Leaf)
	require.NotNil(t, leaf.Params.Min)
	assert.Equal(t, 100.0, *leaf.Params.Min)
	assert.Equal(t, 50000.0, *leaf.Params.Max)
	assert.Equal(t, 0.01, *leaf.Params.Precision)

	spec, _ = s.Lookup("owner")
	nested, ok := spec.(schema.Nested)
	require.True(t, ok)
	assert.Equal(t, []string{"name", "email"}, nested.Schema.Names())
}

func TestParseJSON(t *testing.T) {
	s, err := schema.Parse([]byte(`{"b": "email", "a": {"type": "numberRange", "min": 1, "max": 3}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, s.Names())
}

func TestParseOddSpecsBecomeEmptyLeaves(t *testing.T) {
	s, err := schema.Parse([]byte("n: 42\nl: [a, b]\nz: null\nf: {type: '', min: 1, max: 5}\ng: {type: 7}\n"))
	require.NoError(t, err)

	for _, name := range []string{"n", "l", "z"} {
		spec, _ := s.Lookup(name)
		assert.Equal(t, schema.Leaf{}, spec, name)
	}
	// any type key makes a leaf, even one that names no generator
	for _, name := range []string{"f", "g"} {
		spec, _ := s.Lookup(name)
		leaf, ok := spec.(schema.Leaf)
		require.True(t, ok, name)
		assert.Empty(t, leaf.Tag, name)
	}
	spec, _ := s.Lookup("f")
	require.NotNil(t, spec.(schema.Leaf).Params)
	assert.Equal(t, 5.0, *spec.(schema.Leaf).Params.Max)
}

func TestParseRejectsList(t *testing.T) {
	_, err := schema.Parse([]byte("- a\n- b\n"))
	assert.ErrorIs(t, err, schema.ErrInvalidDocument)
}

func TestParseKeepsUnknownParams(t *testing.T) {
	s, err := schema.Parse([]byte("d: {type: dateRange, startDate: '2024-01-01', endDate: '2024-12-31', tz: UTC}"))
	require.NoError(t, err)
	spec, _ := s.Lookup("d")
	leaf := spec.(schema.Leaf)
	assert.Equal(t, "2024-01-01", leaf.Params.StartDate)
	assert.Equal(t, "2024-12-31", leaf.Params.EndDate)
	assert.Equal(t, map[string]any{"tz": "UTC"}, leaf.Params.Extra)
}

func TestFromMapSortsKeys(t *testing.T) {
	s := schema.FromMap(map[string]any{
		"b": "email",
		"a": map[string]any{"y": "name", "x": "city"},
	})
	assert.Equal(t, []string{"a", "b"}, s.Names())
	spec, _ := s.Lookup("a")
	assert.Equal(t, []string{"x", "y"}, spec.(schema.Nested).Schema.Names())
}

func TestYAMLRoundTrip(t *testing.T) {
	s, err := schema.Parse([]byte(merchantDoc))
	require.NoError(t, err)

	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	back, err := schema.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestTags(t *testing.T) {
	s := schema.New(
		schema.F("id", schema.Tag("id")),
		schema.F("amount", schema.With("floatRange", schema.Params{Min: schema.Float(1)})),
		schema.F("user", schema.Nest(schema.F("email", schema.Tag("email")))),
	)
	assert.ElementsMatch(t, []string{"id", "floatRange", "email"}, s.Tags())
}
