package generator_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinazagideon/mock-generator/internal/format"
	"github.com/chinazagideon/mock-generator/internal/generator"
	"github.com/chinazagideon/mock-generator/internal/record"
	"github.com/chinazagideon/mock-generator/internal/schema"
)

var alnum10 = regexp.MustCompile(`^[A-Za-z0-9]{10}$`)

func transactionSchema() schema.Schema {
	return schema.New(
		schema.F("id", schema.Tag("id")),
		schema.F("transactionId", schema.Tag("transactionId")),
		schema.F("amount", schema.Tag("amount")),
		schema.F("status", schema.Tag("status")),
		schema.F("email", schema.Tag("email")),
		schema.F("uuid", schema.Tag("uuid")),
		schema.F("createdAt", schema.Tag("createdAt")),
		schema.F("tags", schema.Tag("tags")),
		schema.F("metadata", schema.Tag("metadata")),
	)
}

func TestBuildIsDeterministicForSeed(t *testing.T) {
	opts := generator.Options{Seed: generator.Seed(12345)}
	a, err := generator.Build(20, transactionSchema(), opts)
	require.NoError(t, err)
	b, err := generator.Build(20, transactionSchema(), opts)
	require.NoError(t, err)

	ja, err := format.Serialize(a, format.JSON)
	require.NoError(t, err)
	jb, err := format.Serialize(b, format.JSON)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))

	c, err := generator.Build(20, transactionSchema(), generator.Options{Seed: generator.Seed(54321)})
	require.NoError(t, err)
	jc, _ := format.Serialize(c, format.JSON)
	assert.NotEqual(t, string(ja), string(jc))
}

func TestSequentialIDs(t *testing.T) {
	for _, seed := range []*int64{nil, generator.Seed(1), generator.Seed(99)} {
		ds, err := generator.Build(25, transactionSchema(), generator.Options{Seed: seed})
		require.NoError(t, err)
		require.Len(t, ds, 25)
		for i, rec := range ds {
			id, _ := rec.Get("id")
			assert.Equal(t, i+1, id)
		}
	}
}

func TestIDTagOnOtherFieldIsRandom(t *testing.T) {
	s := schema.New(schema.F("ref", schema.Tag("id")))
	ds, err := generator.Build(50, s, generator.Options{Seed: generator.Seed(3)})
	require.NoError(t, err)
	sequential := true
	for i, rec := range ds {
		v, _ := rec.Get("ref")
		n, ok := v.(int)
		require.True(t, ok)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 999999)
		if n != i+1 {
			sequential = false
		}
	}
	assert.False(t, sequential)
}

func TestUnknownTagFallsBack(t *testing.T) {
	s := schema.New(
		schema.F("mystery", schema.Tag("notARealTag")),
		schema.F("empty", schema.Leaf{}),
		schema.F("badParams", schema.With("numberRange", schema.Params{Min: schema.Float(10), Max: schema.Float(1)})),
		schema.F("noOptions", schema.With("enum", schema.Params{})),
		schema.F("unknownParam", schema.With("nope", schema.Params{})),
	)
	ds, err := generator.Build(10, s, generator.Options{})
	require.NoError(t, err)
	for _, rec := range ds {
		for _, f := range rec.Fields() {
			str, ok := f.Value.(string)
			require.True(t, ok, f.Key)
			assert.Regexp(t, alnum10, str, f.Key)
		}
	}
}

func TestEmptyTypeKeyFallsBack(t *testing.T) {
	s, err := schema.Parse([]byte("f: {type: '', min: 1, max: 5}\ng: {type: null}\n"))
	require.NoError(t, err)
	ds, err := generator.Build(3, s, generator.Options{Seed: generator.Seed(4)})
	require.NoError(t, err)
	for _, rec := range ds {
		for _, name := range []string{"f", "g"} {
			v, _ := rec.Get(name)
			str, ok := v.(string)
			require.True(t, ok, name)
			assert.Regexp(t, alnum10, str, name)
		}
	}
}

func TestNestedSchemaRecursion(t *testing.T) {
	s := schema.New(
		schema.F("id", schema.Tag("id")),
		schema.F("status", schema.Nest(
			schema.F("name", schema.Tag("statusName")),
			schema.F("inner", schema.Nest(schema.F("id", schema.Tag("id")))),
		)),
	)
	ds, err := generator.Build(3, s, generator.Options{Seed: generator.Seed(7)})
	require.NoError(t, err)
	for i, rec := range ds {
		v, _ := rec.Get("status")
		status, ok := v.(record.Record)
		require.True(t, ok)
		assert.Equal(t, []string{"name", "inner"}, status.Keys())

		name, _ := status.Get("name")
		assert.Contains(t, []string{"pending", "completed", "failed", "processing", "cancelled"}, name)

		inner, _ := status.Get("inner")
		id, _ := inner.(record.Record).Get("id")
		assert.Equal(t, i+1, id)
	}
}

func TestAdditionalDataOverrides(t *testing.T) {
	extra := record.New("status", "locked", "tenant", "acme")
	ds, err := generator.Build(5, transactionSchema(), generator.Options{AdditionalData: extra})
	require.NoError(t, err)
	for _, rec := range ds {
		st, _ := rec.Get("status")
		assert.Equal(t, "locked", st)
		tenant, _ := rec.Get("tenant")
		assert.Equal(t, "acme", tenant)
		assert.Equal(t, "status", rec.Keys()[3])
	}
}

func TestNegativeCount(t *testing.T) {
	_, err := generator.Build(-1, transactionSchema(), generator.Options{})
	assert.ErrorIs(t, err, generator.ErrNegativeCount)
}

func TestEmptyDatasetCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "empty.csv")
	ds, err := generator.GenerateData(0, transactionSchema(), generator.Options{Format: format.CSV, OutputPath: path})
	require.NoError(t, err)
	assert.NotNil(t, ds)
	assert.Empty(t, ds)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestGenerateDataWritesEachFormat(t *testing.T) {
	dir := t.TempDir()
	opts := generator.Options{Seed: generator.Seed(5)}
	want, err := generator.Build(4, transactionSchema(), opts)
	require.NoError(t, err)

	for _, f := range format.Formats {
		path := filepath.Join(dir, "out"+format.Extension(f))
		opts.Format, opts.OutputPath = f, path
		_, err := generator.GenerateData(4, transactionSchema(), opts)
		require.NoError(t, err)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		expected, err := format.Serialize(want, f)
		require.NoError(t, err)
		assert.Equal(t, string(expected), string(got), f)
	}
}

func TestFormatFallbackToJSON(t *testing.T) {
	dir := t.TempDir()
	opts := generator.Options{Seed: generator.Seed(8), Format: "xml", OutputPath: filepath.Join(dir, "a.xml")}
	_, err := generator.GenerateData(3, transactionSchema(), opts)
	require.NoError(t, err)

	opts.Format, opts.OutputPath = format.JSON, filepath.Join(dir, "a.json")
	_, err = generator.GenerateData(3, transactionSchema(), opts)
	require.NoError(t, err)

	xml, _ := os.ReadFile(filepath.Join(dir, "a.xml"))
	js, _ := os.ReadFile(filepath.Join(dir, "a.json"))
	assert.Equal(t, string(js), string(xml))
}

func TestWriteFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	ds, err := generator.GenerateData(2, transactionSchema(), generator.Options{OutputPath: filepath.Join(blocker, "out.json")})
	require.Error(t, err)
	assert.Nil(t, ds)
	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
}

func TestProgressCallback(t *testing.T) {
	var calls []int
	_, err := generator.Build(3, transactionSchema(), generator.Options{Progress: func(done, total int) {
		assert.Equal(t, 3, total)
		calls = append(calls, done)
	}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestRelativeDatesUseNow(t *testing.T) {
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	s := schema.New(schema.F("d", schema.Tag("date")), schema.F("c", schema.Tag("createdAt")))
	ds, err := generator.Build(30, s, generator.Options{Now: now})
	require.NoError(t, err)
	for _, rec := range ds {
		d, _ := rec.Get("d")
		dt, err := time.Parse(time.RFC3339Nano, d.(string))
		require.NoError(t, err)
		assert.False(t, dt.After(now))
		assert.False(t, dt.Before(now.Add(-24*time.Hour)))

		c, _ := rec.Get("c")
		ct, err := time.Parse(time.RFC3339Nano, c.(string))
		require.NoError(t, err)
		assert.False(t, ct.Before(now.AddDate(-1, 0, 0)))
	}
}
