package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"recruitportal/internal/domain/application"
)

type DebugInfo struct {
	TotalRecords  int               `json:"totalRecords"`
	Headers       []string          `json:"headers"`
	FirstRecord   map[string]string `json:"firstRecord"`
	ColumnMapping Mapping           `json:"columnMapping"`
	Issues        []string          `json:"issues"`
}

type SampleValidation struct {
	Record     map[string]string `json:"record"`
	Validation string            `json:"validation"`
}

type DebugReport struct {
	Debug            DebugInfo         `json:"debug"`
	SampleValidation *SampleValidation `json:"sampleValidation"`
}

// Diagnose explains how an upload would be read without persisting anything.
func Diagnose(table *Table) DebugReport {
	info := DebugInfo{
		Headers:       []string{},
		ColumnMapping: Mapping{},
		Issues:        []string{},
	}
	if table != nil {
		info.TotalRecords = len(table.Rows)
		if table.Headers != nil {
			info.Headers = table.Headers
		}
		info.ColumnMapping = MatchColumns(table.Headers)
	}
	if info.TotalRecords == 0 {
		info.Issues = append(info.Issues, "No records found in CSV")
	}
	for _, field := range ProfileStrict.RequiredFields() {
		if _, ok := info.ColumnMapping[field]; !ok {
			info.Issues = append(info.Issues, fmt.Sprintf("Required field '%s' not found in headers", field))
		}
	}

	report := DebugReport{Debug: info}
	if info.TotalRecords == 0 {
		return report
	}
	first := table.Rows[0]
	report.Debug.FirstRecord = first.Values()
	record := info.ColumnMapping.Extract(first)
	report.Debug.Issues = append(report.Debug.Issues, enumIssues(record)...)
	report.SampleValidation = &SampleValidation{
		Record:     first.Values(),
		Validation: "Check if values match required enum constraints",
	}
	return report
}

func enumIssues(record Record) []string {
	var issues []string
	if branch := record.Get(FieldBranch); branch != "" && !application.IsKnownDepartment(branch) {
		issues = append(issues, fmt.Sprintf("Department value '%s' doesn't match expected values: %s%s",
			branch, strings.Join(application.Departments, ", "), suggestion(branch, application.Departments)))
	}
	if year := record.Get(FieldYear); year != "" && !application.IsKnownYear(year) {
		issues = append(issues, fmt.Sprintf("Year value '%s' doesn't match expected values: %s%s",
			year, strings.Join(application.Years, ", "), suggestion(year, application.Years)))
	}
	if role := record.Get(FieldPrimaryRole); role != "" {
		normalized := NormalizeRole(role)
		switch {
		case !application.IsCanonicalRole(normalized):
			issues = append(issues, fmt.Sprintf("Role value '%s' doesn't match expected values. Available roles: %s%s",
				role, strings.Join(application.Roles, ", "), suggestion(role, application.Roles)))
		case normalized != role:
			issues = append(issues, fmt.Sprintf("Role value '%s' will be normalized to '%s'", role, normalized))
		}
	}
	return issues
}

// suggestion names the closest allowed value, if any is close at all.
func suggestion(value string, allowed []string) string {
	ranks := fuzzy.RankFindNormalizedFold(value, allowed)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return fmt.Sprintf(" (did you mean '%s'?)", ranks[0].Target)
}
