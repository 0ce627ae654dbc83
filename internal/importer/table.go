package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"recruitportal/internal/common"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Table is an uploaded sheet: a header row and the data rows below it.
type Table struct {
	Headers []string
	Rows    []Row
	index   map[string]int
}

// Row is one data row. Number is the row's position in the sheet with the
// header as row 1, so the first data row is 2. Skipped blank lines and quoted
// cells spanning several lines are not counted.
type Row struct {
	Number int
	Cells  []string
	table  *Table
}

func newTable(headers []string) *Table {
	t := &Table{Headers: headers, index: make(map[string]int, len(headers))}
	for i, header := range headers {
		// duplicate headers: the first column wins
		if _, ok := t.index[header]; !ok {
			t.index[header] = i
		}
	}
	return t
}

func (t *Table) appendRow(cells []string) {
	t.Rows = append(t.Rows, Row{Number: len(t.Rows) + 2, Cells: cells, table: t})
}

// Get returns the cell under header, or "" when the header is unknown.
func (r Row) Get(header string) string {
	if r.table == nil {
		return ""
	}
	i, ok := r.table.index[header]
	if !ok || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Values echoes the row keyed by header for error reports.
func (r Row) Values() map[string]string {
	values := make(map[string]string, len(r.Cells))
	if r.table == nil {
		return values
	}
	for header := range r.table.index {
		values[header] = r.Get(header)
	}
	return values
}

// ReadCSV parses CSV text with the first row as headers. Blank lines are
// skipped and every cell is trimmed. UTF-8 and UTF-16 byte order marks are
// honoured. Rows whose width differs from the header fail the whole parse.
func ReadCSV(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return newTable(nil), nil
	}
	if err != nil {
		return nil, parseError(err)
	}
	table := newTable(trimAll(header))

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}
		cells := trimAll(record)
		if isBlank(cells) && len(cells) == 1 {
			continue
		}
		if len(cells) != len(table.Headers) {
			line, _ := reader.FieldPos(0)
			return nil, parseError(fmt.Errorf("record on line %d: expected %d fields, got %d", line, len(table.Headers), len(cells)))
		}
		table.appendRow(cells)
	}
	return table, nil
}

// ReadXLSX reads the first worksheet of a workbook as a table.
func ReadXLSX(r io.Reader) (*Table, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, parseError(err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseError(errors.New("archive contains no worksheets"))
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, parseError(err)
	}
	if len(rows) == 0 {
		return newTable(nil), nil
	}
	table := newTable(trimAll(rows[0]))
	for _, raw := range rows[1:] {
		cells := trimAll(raw)
		if isBlank(cells) {
			continue
		}
		// excelize drops trailing empty cells
		for len(cells) < len(table.Headers) {
			cells = append(cells, "")
		}
		table.appendRow(cells[:len(table.Headers)])
	}
	return table, nil
}

// ReadUpload sniffs the payload: zip archives go to the XLSX reader and
// everything else is parsed as CSV. A trailing DOS end-of-file marker (Ctrl-Z)
// is dropped before parsing.
func ReadUpload(data []byte) (*Table, error) {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is(xlsxMIME) || m.Is("application/zip") {
			return ReadXLSX(bytes.NewReader(data))
		}
	}
	return ReadCSV(bytes.NewReader(bytes.TrimRight(data, "\x1a")))
}

func parseError(err error) error {
	return common.NewError(common.CodeBadRequest, "Failed to parse CSV file", err).WithDetails(err.Error())
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = strings.TrimSpace(value)
	}
	return out
}

func isBlank(values []string) bool {
	for _, value := range values {
		if value != "" {
			return false
		}
	}
	return true
}
