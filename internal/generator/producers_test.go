package generator_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinazagideon/mock-generator/internal/generator"
	"github.com/chinazagideon/mock-generator/internal/record"
	"github.com/chinazagideon/mock-generator/internal/schema"
)

func produce(t *testing.T, r *generator.Rand, tag string, p *schema.Params) any {
	t.Helper()
	fn, ok := generator.Lookup(tag)
	require.True(t, ok, tag)
	v, err := fn(r, generator.ArgsFrom(p))
	require.NoError(t, err, tag)
	return v
}

func TestEveryFixedKindProduces(t *testing.T) {
	r := generator.NewRand(1, time.Now())
	for _, d := range generator.List() {
		if d.Parameterized {
			continue
		}
		v := produce(t, r, string(d.Kind), nil)
		assert.NotNil(t, v, d.Kind)
	}
}

func TestListIsSortedAndComplete(t *testing.T) {
	list := generator.List()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, string(list[i-1].Kind), string(list[i].Kind))
	}
	for _, tag := range []string{"enum", "numberRange", "floatRange", "dateRange", "stringLength"} {
		d, ok := generator.Describe(tag)
		require.True(t, ok, tag)
		assert.True(t, d.Parameterized, tag)
	}
	_, ok := generator.Lookup("xml")
	assert.False(t, ok)
}

func TestNumberRangeInclusive(t *testing.T) {
	r := generator.NewRand(2, time.Now())
	p := &schema.Params{Min: schema.Float(1), Max: schema.Float(3)}
	seen := map[int]bool{}
	for i := 0; i < 300; i++ {
		n := produce(t, r, "numberRange", p).(int)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 3)
		seen[n] = true
	}
	assert.Len(t, seen, 3)
}

func TestFloatRangeQuantised(t *testing.T) {
	r := generator.NewRand(3, time.Now())
	p := &schema.Params{Min: schema.Float(100), Max: schema.Float(50000), Precision: schema.Float(0.01)}
	for i := 0; i < 200; i++ {
		v := produce(t, r, "floatRange", p).(float64)
		assert.GreaterOrEqual(t, v, 100.0)
		assert.LessOrEqual(t, v, 50000.0)
		cents := v * 100
		assert.InDelta(t, math.Round(cents), cents, 1e-6)
	}

	p = &schema.Params{Min: schema.Float(0), Max: schema.Float(10), Precision: schema.Float(5)}
	for i := 0; i < 50; i++ {
		assert.Contains(t, []float64{0, 5, 10}, produce(t, r, "floatRange", p))
	}
}

func TestFloatRangeDefaults(t *testing.T) {
	r := generator.NewRand(4, time.Now())
	v := produce(t, r, "floatRange", &schema.Params{}).(float64)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 1.0)
}

func TestEnumPicksFromOptions(t *testing.T) {
	r := generator.NewRand(5, time.Now())
	opts := []any{"active", "inactive", 3}
	for i := 0; i < 50; i++ {
		assert.Contains(t, opts, produce(t, r, "enum", &schema.Params{Options: opts}))
	}
}

func TestDateRangeBounds(t *testing.T) {
	r := generator.NewRand(6, time.Now())
	p := &schema.Params{StartDate: "2024-01-01", EndDate: "2024-12-31"}
	lo := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		s := produce(t, r, "dateRange", p).(string)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, s)
		ts, err := time.Parse(time.RFC3339Nano, s)
		require.NoError(t, err)
		assert.False(t, ts.Before(lo))
		assert.False(t, ts.After(hi))
	}
}

func TestDateRangeEpochMillis(t *testing.T) {
	r := generator.NewRand(7, time.Now())
	ms := float64(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
	s := produce(t, r, "dateRange", &schema.Params{Min: &ms, Max: &ms})
	assert.Equal(t, "2024-03-01T00:00:00.000Z", s)
}

func TestStringLength(t *testing.T) {
	r := generator.NewRand(8, time.Now())
	assert.Len(t, produce(t, r, "stringLength", &schema.Params{Length: schema.Int(24)}), 24)
	assert.Len(t, produce(t, r, "stringLength", &schema.Params{Min: schema.Float(5)}), 5)
	assert.Len(t, produce(t, r, "stringLength", &schema.Params{}), 1)
}

// Slot one holds options when present, so a numeric producer given both
// options and min sees no min.
func TestOptionsHideMin(t *testing.T) {
	args := generator.ArgsFrom(&schema.Params{
		Options: []any{"x"},
		Min:     schema.Float(500),
		Max:     schema.Float(510),
	})
	assert.Nil(t, args.Min)
	require.NotNil(t, args.Max)

	r := generator.NewRand(9, time.Now())
	fn, _ := generator.Lookup("numberRange")
	for i := 0; i < 100; i++ {
		v, err := fn(r, args)
		require.NoError(t, err)
		assert.LessOrEqual(t, v.(int), 510)
	}
	low := false
	for i := 0; i < 200 && !low; i++ {
		v, _ := fn(r, args)
		low = v.(int) < 500
	}
	assert.True(t, low, "min should be ignored when options occupy slot one")

	str, _ := generator.Lookup("stringLength")
	_, err := str(r, args)
	assert.ErrorIs(t, err, generator.ErrBadArgs)
}

func TestDatesFillOnlyEmptySlots(t *testing.T) {
	args := generator.ArgsFrom(&schema.Params{Min: schema.Float(0), StartDate: "2024-01-01", EndDate: "2024-02-01"})
	assert.Empty(t, args.StartDate)
	assert.Equal(t, "2024-02-01", args.EndDate)
}

func TestProducerErrors(t *testing.T) {
	r := generator.NewRand(10, time.Now())
	cases := []struct {
		tag string
		p   schema.Params
	}{
		{"enum", schema.Params{}},
		{"numberRange", schema.Params{Min: schema.Float(5), Max: schema.Float(4)}},
		{"floatRange", schema.Params{Precision: schema.Float(0)}},
		{"dateRange", schema.Params{StartDate: "not a date", EndDate: "2024-01-01"}},
		{"dateRange", schema.Params{StartDate: "2024-02-01", EndDate: "2024-01-01"}},
		{"stringLength", schema.Params{Length: schema.Int(-1)}},
	}
	for _, tc := range cases {
		fn, _ := generator.Lookup(tc.tag)
		p := tc.p
		_, err := fn(r, generator.ArgsFrom(&p))
		assert.ErrorIs(t, err, generator.ErrBadArgs, tc.tag)
	}
}

func TestFixedProducerShapes(t *testing.T) {
	r := generator.NewRand(11, time.Now())

	assert.Regexp(t, `^T[A-Z0-9]{8}$`, produce(t, r, "terminalId", nil))
	assert.Regexp(t, `^M[A-Z0-9]{8}$`, produce(t, r, "merchantId", nil))
	assert.Regexp(t, `^TXN[A-Z0-9]{10}$`, produce(t, r, "transactionId", nil))
	assert.Regexp(t, `^[A-Z0-9]{12}$`, produce(t, r, "rrn", nil))
	assert.Regexp(t, `^[A-Za-z0-9]{10}$`, produce(t, r, "string", nil))

	_, err := uuid.Parse(produce(t, r, "uuid", nil).(string))
	assert.NoError(t, err)

	amount := produce(t, r, "amount", nil).(float64)
	assert.GreaterOrEqual(t, amount, 100.0)
	assert.LessOrEqual(t, amount, 100000.0)

	n := produce(t, r, "number", nil).(int)
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 10000)

	tags := produce(t, r, "tags", nil).([]any)
	assert.GreaterOrEqual(t, len(tags), 1)
	assert.LessOrEqual(t, len(tags), 3)
	seen := map[any]bool{}
	for _, tag := range tags {
		assert.False(t, seen[tag])
		seen[tag] = true
	}

	meta := produce(t, r, "metadata", nil).(record.Record)
	assert.Equal(t, []string{"source", "version", "environment", "timestamp"}, meta.Keys())
}

func TestSeededUUIDsRepeat(t *testing.T) {
	a := produce(t, generator.NewRand(42, time.Time{}), "uuid", nil)
	b := produce(t, generator.NewRand(42, time.Time{}), "uuid", nil)
	assert.Equal(t, a, b)
}
