package importer

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"

	"recruitportal/internal/common"
)

func TestReadCSVTrimsCellsAndSkipsBlankLines(t *testing.T) {
	input := "Full Name , email\n  Alice  , a@b.com \n\n   \nBob,b@c.com\n"

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Full Name", "email"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.Rows[0].Number)
	assert.Equal(t, "Alice", table.Rows[0].Get("Full Name"))
	assert.Equal(t, "a@b.com", table.Rows[0].Get("email"))
	assert.Equal(t, 3, table.Rows[1].Number)
	assert.Equal(t, "Bob", table.Rows[1].Get("Full Name"))
}

func TestReadCSVStripsUTF8BOM(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("\ufeffemail,name\na@b.com,A\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "name"}, table.Headers)
	assert.Equal(t, "a@b.com", table.Rows[0].Get("email"))
}

func TestReadCSVDecodesUTF16(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String("email,name\na@b.com,Ana\n")
	require.NoError(t, err)

	table, err := ReadCSV(strings.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "name"}, table.Headers)
	assert.Equal(t, "Ana", table.Rows[0].Get("name"))
}

func TestReadCSVDuplicateHeaderFirstWins(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("email,email\nfirst@x.com,second@x.com\n"))
	require.NoError(t, err)
	assert.Equal(t, "first@x.com", table.Rows[0].Get("email"))
	assert.Equal(t, map[string]string{"email": "first@x.com"}, table.Rows[0].Values())
}

func TestReadCSVRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"width mismatch":     "a,b\n1,2,3\n",
		"short row":          "a,b,c\n1,2\n",
		"unterminated quote": "a,b\n\"1,2\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(input))
			require.Error(t, err)
			assert.True(t, common.Is(err, common.CodeBadRequest))

			var coded *common.Error
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, "Failed to parse CSV file", coded.Message)
			assert.NotEmpty(t, coded.Details)
		})
	}
}

func TestReadCSVHeaderOnlyAndEmpty(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("email,name\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "name"}, table.Headers)
	assert.Empty(t, table.Rows)

	table, err = ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestRowGetUnknownHeader(t *testing.T) {
	table := newTable([]string{"a"})
	table.appendRow([]string{"1"})
	assert.Equal(t, "", table.Rows[0].Get("b"))
	assert.Equal(t, "", Row{}.Get("a"))
}

func xlsxFixture(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()
	sheet := book.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, cell, &row))
	}
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadUploadReadsWorkbook(t *testing.T) {
	data := xlsxFixture(t,
		[]any{" Full Name ", "email", "Year"},
		[]any{"Alice", " a@b.com ", "TE (The sweet spot.)"},
		[]any{"Bob", "b@c.com"},
	)

	table, err := ReadUpload(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Full Name", "email", "Year"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "a@b.com", table.Rows[0].Get("email"))
	assert.Equal(t, []string{"Bob", "b@c.com", ""}, table.Rows[1].Cells)
	assert.Equal(t, 3, table.Rows[1].Number)
}

func TestReadUploadReadsCSV(t *testing.T) {
	table, err := ReadUpload([]byte("email\na@b.com\n"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
}

func TestReadUploadToleratesControlBytes(t *testing.T) {
	cases := map[string]string{
		"vertical tab in cell": "Full Name,Email address\nA\x0bB,a@x.com\n",
		"trailing ctrl-z":      "Full Name,Email address\nA\x0bB,a@x.com\n\x1a",
		"nul in cell":          "Full Name,Email address\nA\x0bB\x00,a@x.com\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			table, err := ReadUpload([]byte(input))
			require.NoError(t, err)
			assert.Equal(t, []string{"Full Name", "Email address"}, table.Headers)
			require.Len(t, table.Rows, 1)
			assert.True(t, strings.HasPrefix(table.Rows[0].Get("Full Name"), "A\x0bB"))
			assert.Equal(t, "a@x.com", table.Rows[0].Get("Email address"))
		})
	}
}

func TestReadUploadSpaceBeforeQuotedCell(t *testing.T) {
	table, err := ReadUpload([]byte("Full Name, \"Email address\"\nA, \"a@x.com\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Full Name", "Email address"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "A", table.Rows[0].Get("Full Name"))
	assert.Equal(t, "a@x.com", table.Rows[0].Get("Email address"))
}

func TestReadUploadRejectsArchiveWithoutWorkbook(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("notes.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("not a workbook"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = ReadUpload(buf.Bytes())
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeBadRequest))
}
