package importer

import (
	"fmt"
	"strings"
)

const checkSampleSize = 10

type CheckResult struct {
	TotalRecords int               `json:"totalRecords"`
	ValidRecords int               `json:"validRecords"`
	Errors       []string          `json:"errors"`
	Warnings     []string          `json:"warnings"`
	Sample       map[string]string `json:"sample"`
	Headers      []string          `json:"headers"`
}

type CheckReport struct {
	Validation CheckResult `json:"validation"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
}

// Check dry-runs the strict profile over the first rows of an upload. It
// does not consult the store, so duplicates are not reported.
func Check(table *Table) CheckReport {
	result := CheckResult{Errors: []string{}, Warnings: []string{}, Headers: []string{}}
	if table == nil {
		table = newTable(nil)
	}
	result.TotalRecords = len(table.Rows)
	if table.Headers != nil {
		result.Headers = table.Headers
	}
	if len(table.Rows) > 0 {
		result.Sample = table.Rows[0].Values()
	}

	mapping := MatchColumns(table.Headers)
	for _, field := range ProfileStrict.RequiredFields() {
		if _, ok := mapping[field]; !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Missing required header: %s", field))
		}
	}

	for i, row := range table.Rows {
		if i == checkSampleSize {
			break
		}
		record := mapping.Extract(row)
		for _, field := range []Field{FieldPrimaryRole, FieldSecondaryRole} {
			if HasCorruptedGlyph(record.Get(field)) {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Row %d: %s has corrupted emoji characters", row.Number, field))
			}
		}
		var problems []string
		for _, field := range missingFields(record, ProfileStrict) {
			problems = append(problems, "Missing "+string(field))
		}
		if email := record.Get(FieldEmail); email != "" && !ValidEmail(email) {
			problems = append(problems, reasonInvalidEmail)
		}
		problems = append(problems, enumViolations(record)...)
		if len(problems) > 0 {
			email := record.Get(FieldEmail)
			if email == "" {
				email = "No email"
			}
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d (%s): %s", row.Number, email, strings.Join(problems, ", ")))
			continue
		}
		result.ValidRecords++
	}

	report := CheckReport{Validation: result, Success: len(result.Errors) == 0}
	if report.Success {
		report.Message = "CSV validation passed!"
	} else {
		report.Message = fmt.Sprintf("Found %d errors that need to be fixed", len(result.Errors))
	}
	return report
}
