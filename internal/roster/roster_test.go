package roster

import (
	"bytes"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMatchColumns(t *testing.T) {
	t.Run("reference headers", func(t *testing.T) {
		cols := MatchColumns([]string{"Badge #", "First name", "Last name"})
		assert.Equal(t, Columns{Identifier: 0, FirstName: 1, LastName: 2}, cols)
	})

	t.Run("case-insensitive substring, first match wins", func(t *testing.T) {
		cols := MatchColumns([]string{"Dept", "LASTNAME", "FirstName", "BadgeNumber", "Last Login", "first aid"})
		assert.Equal(t, 3, cols.Identifier)
		assert.Equal(t, 2, cols.FirstName)
		assert.Equal(t, 1, cols.LastName)
	})

	t.Run("unmatched fields are -1", func(t *testing.T) {
		cols := MatchColumns([]string{"id", "name"})
		assert.Equal(t, Columns{Identifier: -1, FirstName: -1, LastName: -1}, cols)
	})
}

func TestFromRows(t *testing.T) {
	header := []string{"First name", "Badge", "Last name"}
	rows := [][]string{
		{" Jane ", "12345", "Doe"},
		{"John"},
	}
	got := FromRows(header, rows)
	require.Len(t, got, 2)
	assert.Equal(t, Record{Identifier: "12345", FirstName: "Jane", LastName: "Doe"}, got[0])
	assert.Equal(t, Record{FirstName: "John"}, got[1])
}

func TestParseCSV(t *testing.T) {
	in := "\ufeffBadge #,First name,Last name\n12345,Jane,Doe\n678,Ali\n"
	got, err := Parse("staff.CSV", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Identifier: "12345", FirstName: "Jane", LastName: "Doe"},
		{Identifier: "678", FirstName: "Ali"},
	}, got)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Badge", "FirstName", "LastName"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"12345678", "Jane", "Doe"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	got, err := Parse("staff.xlsx", buf)
	require.NoError(t, err)
	assert.Equal(t, []Record{{Identifier: "12345678", FirstName: "Jane", LastName: "Doe"}}, got)
}

type parquetRow struct {
	BadgeNo   string `parquet:"badge_no"`
	FirstName string `parquet:"first_name"`
	LastName  string `parquet:"last_name"`
}

func TestParseParquet(t *testing.T) {
	var buf bytes.Buffer
	err := parquet.Write(&buf, []parquetRow{
		{BadgeNo: "1", FirstName: "Jane", LastName: "Doe"},
		{BadgeNo: "2", FirstName: "Ali", LastName: "Khan"},
	})
	require.NoError(t, err)

	got, err := Parse("staff.parquet", &buf)
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Identifier: "1", FirstName: "Jane", LastName: "Doe"},
		{Identifier: "2", FirstName: "Ali", LastName: "Khan"},
	}, got)
}

func TestParseRejectsUnknownFormat(t *testing.T) {
	_, err := Parse("staff.json", strings.NewReader("{}"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFilter(t *testing.T) {
	recs := []Record{
		{Identifier: "1", FirstName: "Jane", LastName: "Doe"},
		{},
		{Identifier: "2", FirstName: "John", LastName: "Smith"},
		{Identifier: "3", FirstName: "Janet", LastName: "Doe"},
	}

	assert.Len(t, Filter(recs, FilterOptions{}), 4)
	assert.Len(t, Filter(recs, FilterOptions{SkipBlank: true}), 3)
	assert.Equal(t, []Record{recs[2]}, Filter(recs, FilterOptions{Identifiers: []string{"2"}}))
	assert.Equal(t, []Record{recs[0], recs[3]}, Filter(recs, FilterOptions{FreeWords: "doe JAN"}))
}
