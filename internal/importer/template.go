package importer

import (
	"bytes"
	"encoding/csv"

	"recruitportal/internal/domain/application"
)

const TemplateFilename = "applications_template.csv"

var templateRows = [][]string{
	{"John Doe", "john.doe@example.com", "9876543210", application.Departments[0], application.Years[1], application.RoleDocumentation, application.RoleDesign,
		"I want to write about what the club builds.", "Wrote for the college magazine.", "false", "", "6-8 hours a week", string(application.StatusPending), "", "Sample row, remove before uploading"},
	{"Jane Smith", "jane.smith@example.com", "9876543211", application.Departments[1], application.Years[2], application.RoleDesign, application.RolePhotography,
		"I like making things look good.", "Two years of Figma and Canva.", "true", "Robotics club", "10 hours a week", string(application.StatusShortlisted), "Good portfolio", "Sample row, remove before uploading"},
	{"Raj Patel", "raj.patel@example.com", "9876543212", application.Departments[0], application.Years[0], application.RoleTechnical, application.RoleOperations,
		"I want to build the club website.", "Built a few web apps.", "no", "", "12 hours a week", string(application.StatusSelected), "Strong technical skills", "Sample row, remove before uploading"},
	{"Priya Singh", "priya.singh@example.com", "9876543213", application.Departments[2], application.Years[3], application.RoleMarketing, application.RoleEvents,
		"I enjoy talking to sponsors.", "Ran social media for a college fest.", "yes", "Drama society", "8 hours a week", string(application.StatusRejected), "Schedule conflict", "Sample row, remove before uploading"},
}

// TemplateHeaders are the canonical column names; each matches its field exactly.
func TemplateHeaders() []string {
	fields := Fields()
	headers := make([]string, len(fields))
	for i, field := range fields {
		headers[i] = string(field)
	}
	return headers
}

// Template renders a starter CSV with one sample row per status.
func Template() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(TemplateHeaders()); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(templateRows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
