package importer

import (
	"bytes"
	"encoding/csv"
	"strings"
)

var legacyHeaders = map[string]string{
	"whyJoinEcell":       string(FieldWhyThisRole),
	"relevantExperience": string(FieldPastExperience),
}

const (
	placeholderMotivation = "Interested in contributing to the club"
	placeholderExperience = "No prior experience"
)

// Repair rewrites an upload so that it imports cleanly under the strict
// profile where that can be done mechanically: legacy headers are renamed,
// role labels are normalized and empty motivation or experience cells get a
// placeholder.
func Repair(table *Table) ([]byte, error) {
	if table == nil {
		table = newTable(nil)
	}
	headers := make([]string, len(table.Headers))
	for i, header := range table.Headers {
		if renamed, ok := legacyHeaders[header]; ok {
			header = renamed
		}
		headers[i] = header
	}
	fixed := newTable(headers)
	mapping := MatchColumns(headers)
	column := func(field Field) int {
		header, ok := mapping[field]
		if !ok {
			return -1
		}
		return fixed.index[header]
	}
	primary := column(FieldPrimaryRole)
	secondary := column(FieldSecondaryRole)
	motivation := column(FieldWhyThisRole)
	experience := column(FieldPastExperience)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	for _, row := range table.Rows {
		cells := append([]string(nil), row.Cells...)
		if primary >= 0 {
			cells[primary] = NormalizeRole(cells[primary])
		}
		if secondary >= 0 && cells[secondary] != "" {
			cells[secondary] = strings.Join(SplitRoles(cells[secondary]), "; ")
		}
		if motivation >= 0 && cells[motivation] == "" {
			cells[motivation] = placeholderMotivation
		}
		if experience >= 0 && (cells[experience] == "" || strings.EqualFold(cells[experience], "no")) {
			cells[experience] = placeholderExperience
		}
		if err := writer.Write(cells); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
