package format_test

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinazagideon/mock-generator/internal/format"
	"github.com/chinazagideon/mock-generator/internal/record"
)

func sample() record.Dataset {
	return record.Dataset{
		record.New("id", 1, "company", `Acme, "Inc."`, "amount", 12.5, "active", true, "meta", record.New("a", 1)),
		record.New("id", 2, "company", "Plain", "amount", 3.0, "active", false, "meta", nil),
	}
}

func TestJSONPretty(t *testing.T) {
	out, err := format.Serialize(record.Dataset{record.New("id", 1, "name", "<x>")}, format.JSON)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": 1,\n    \"name\": \"<x>\"\n  }\n]", string(out))
}

func TestJSONEmpty(t *testing.T) {
	out, err := format.Serialize(nil, format.JSON)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestJSAndTSWrap(t *testing.T) {
	ds := record.Dataset{record.New("id", 1)}
	body, err := format.Serialize(ds, format.JSON)
	require.NoError(t, err)

	js, err := format.Serialize(ds, format.JS)
	require.NoError(t, err)
	assert.Equal(t, "export const mockData = "+string(body)+";", string(js))

	ts, err := format.Serialize(ds, format.TS)
	require.NoError(t, err)
	assert.Equal(t, "export const mockData = "+string(body)+" as const;", string(ts))
}

func TestUnknownFormatIsJSON(t *testing.T) {
	ds := sample()
	want, err := format.Serialize(ds, format.JSON)
	require.NoError(t, err)
	for _, f := range []format.Format{"xml", "", "yaml"} {
		got, err := format.Serialize(ds, f)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), f)
	}
	assert.Equal(t, format.CSV, format.Normalize(" CSV "))
}

func TestCSVEscaping(t *testing.T) {
	out, err := format.Serialize(sample(), format.CSV)
	require.NoError(t, err)

	lines := strings.Split(string(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,company,amount,active,meta", lines[0])
	assert.Equal(t, `1,"Acme, ""Inc.""",12.5,true,"{""a"":1}"`, lines[1])
	assert.Equal(t, "2,Plain,3,false,", lines[2])

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `Acme, "Inc."`, rows[1][1])
	assert.Equal(t, `{"a":1}`, rows[1][4])
}

func TestCSVUsesFirstRecordColumns(t *testing.T) {
	ds := record.Dataset{
		record.New("a", 1, "b", 2),
		record.New("b", 3, "c", 4),
	}
	out, err := format.Serialize(ds, format.CSV)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n,3", string(out))
}

func TestCSVEmpty(t *testing.T) {
	out, err := format.Serialize(record.Dataset{}, format.CSV)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".ts", format.Extension(format.TS))
	assert.Equal(t, ".json", format.Extension("xml"))
}
