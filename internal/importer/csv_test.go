package importer

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVParser_Testdata(t *testing.T) {
	f, err := os.Open("../../testdata/shop_transactions.csv")
	require.NoError(t, err)
	defer f.Close()

	table, err := (&CSVParser{}).Parse(f)
	require.NoError(t, err)

	assert.Equal(t, "customer name", table.Header[0], "BOM must be stripped from the first header")
	assert.Equal(t, "discount %", table.Header[7])
	require.Len(t, table.Rows, 4, "blank line is dropped")

	assert.Equal(t, 2, table.Rows[0].Line)
	assert.Equal(t, "Doe, Jane", table.Rows[0].Fields[0])
	assert.Equal(t, 4, table.Rows[1].Line, "line numbers count the dropped blank line")
	assert.Equal(t, `Customer said "asap"`, table.Rows[1].Fields[11])
}

func TestCSVParser_Empty(t *testing.T) {
	table, err := (&CSVParser{}).Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, table.Empty())

	table, err = (&CSVParser{}).Parse(strings.NewReader("\ufeff\n  \n"))
	require.NoError(t, err)
	assert.True(t, table.Empty())
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	table, err := (&CSVParser{}).Parse(strings.NewReader("customername,servicename\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"customername", "servicename"}, table.Header)
	assert.True(t, table.Empty())
}

func TestTable_Raw(t *testing.T) {
	table := &Table{Header: []string{"a", "b", "c"}}

	short := table.Raw(Row{Line: 2, Fields: []string{"1"}})
	assert.Equal(t, map[string]string{"a": "1", "b": "", "c": ""}, short.Values)
	assert.Equal(t, 2, short.Line)

	long := table.Raw(Row{Line: 3, Fields: []string{"1", "2", "3", "4"}})
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, long.Values)
}

func TestTable_RawDuplicateHeader(t *testing.T) {
	table := &Table{Header: []string{"name", "", "name"}}
	raw := table.Raw(Row{Fields: []string{"first", "skip", "second"}})
	assert.Equal(t, map[string]string{"name": "first"}, raw.Values)
}
