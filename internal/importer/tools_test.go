package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitportal/internal/domain/application"
)

const formRow = "A,a@x.com,1,CSD,FE,?? Documentation (The storytellers)\n"

func TestDiagnoseFormExport(t *testing.T) {
	report := Diagnose(mustReadCSV(t, formHeaders+formRow))

	info := report.Debug
	assert.Equal(t, 1, info.TotalRecords)
	assert.Equal(t, "Email address", info.ColumnMapping[FieldEmail])
	assert.Equal(t, "A", info.FirstRecord["Full Name"])
	assert.Contains(t, info.Issues, "Required field 'whyThisRole' not found in headers")
	assert.Contains(t, info.Issues, "Required field 'pastExperience' not found in headers")
	assert.Contains(t, info.Issues, "Role value '?? Documentation (The storytellers)' will be normalized to '"+application.RoleDocumentation+"'")

	var department string
	for _, issue := range info.Issues {
		if strings.HasPrefix(issue, "Department value 'CSD'") {
			department = issue
		}
	}
	assert.Contains(t, department, "did you mean 'Computer Science & Design (CSD)'?")

	require.NotNil(t, report.SampleValidation)
	assert.Equal(t, "a@x.com", report.SampleValidation.Record["Email address"])
}

func TestDiagnoseEmptyUpload(t *testing.T) {
	report := Diagnose(mustReadCSV(t, ""))

	assert.Equal(t, 0, report.Debug.TotalRecords)
	assert.Contains(t, report.Debug.Issues, "No records found in CSV")
	assert.Nil(t, report.SampleValidation)
	assert.NotNil(t, report.Debug.Headers)
}

func TestCheckReportsHeaderAndRowProblems(t *testing.T) {
	report := Check(mustReadCSV(t, formHeaders+formRow))

	assert.False(t, report.Success)
	assert.Equal(t, "Found 3 errors that need to be fixed", report.Message)
	assert.Equal(t, []string{
		"Missing required header: whyThisRole",
		"Missing required header: pastExperience",
		"Row 2 (a@x.com): Missing whyThisRole, Missing pastExperience, Invalid department: CSD, Invalid year: FE",
	}, report.Validation.Errors)
	assert.Equal(t, []string{"Row 2: primaryRole has corrupted emoji characters"}, report.Validation.Warnings)
	assert.Equal(t, 0, report.Validation.ValidRecords)
}

func TestCheckOnlySamplesLeadingRows(t *testing.T) {
	var b bytes.Buffer
	b.WriteString(formHeaders)
	for i := 0; i < 15; i++ {
		b.WriteString(",,,,,\n")
	}

	report := Check(mustReadCSV(t, b.String()))

	assert.Equal(t, 15, report.Validation.TotalRecords)
	assert.Len(t, report.Validation.Errors, 2+checkSampleSize)
	assert.Contains(t, report.Validation.Errors[2], "Row 2 (No email): ")
}

func TestTemplateImportsCleanlyUnderStrictProfile(t *testing.T) {
	data, err := Template()
	require.NoError(t, err)

	table, err := ReadUpload(data)
	require.NoError(t, err)
	assert.Equal(t, TemplateHeaders(), table.Headers)
	require.Len(t, table.Rows, 4)

	check := Check(table)
	assert.True(t, check.Success, "errors: %v", check.Validation.Errors)
	assert.Equal(t, "CSV validation passed!", check.Message)
	assert.Equal(t, 4, check.Validation.ValidRecords)

	store := &fakeStore{}
	report := NewImporter(store, nil).Import(context.Background(), table, ProfileStrict)
	assert.Equal(t, 4, report.Successful)

	statuses := map[application.Status]bool{}
	for _, app := range store.apps {
		statuses[app.Status] = true
	}
	assert.Len(t, statuses, len(application.Statuses))
}

func TestRepairRewritesLegacyUpload(t *testing.T) {
	input := "fullName,email,whyJoinEcell,relevantExperience,primaryRole,secondaryRole\n" +
		`A,a@x.com,,no,?? Documentation (The storytellers),"?? Events (Chaos coordinator extraordinaire)|Technical / Web (Code is poetry, right?)"` + "\n" +
		"B,b@x.com,Love it,Built stuff,Unknown role,\n"

	fixed, err := Repair(mustReadCSV(t, input))
	require.NoError(t, err)

	table := mustReadCSV(t, string(fixed))
	assert.Equal(t, []string{"fullName", "email", "whyThisRole", "pastExperience", "primaryRole", "secondaryRole"}, table.Headers)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, "Interested in contributing to the club", first.Get("whyThisRole"))
	assert.Equal(t, "No prior experience", first.Get("pastExperience"))
	assert.Equal(t, application.RoleDocumentation, first.Get("primaryRole"))
	assert.Equal(t, application.RoleEvents+"; "+application.RoleTechnical, first.Get("secondaryRole"))

	second := table.Rows[1]
	assert.Equal(t, "Love it", second.Get("whyThisRole"))
	assert.Equal(t, "Built stuff", second.Get("pastExperience"))
	assert.Equal(t, "Unknown role", second.Get("primaryRole"))
	assert.Equal(t, "", second.Get("secondaryRole"))
}

func TestRepairIsIdempotent(t *testing.T) {
	data, err := Template()
	require.NoError(t, err)

	once, err := Repair(mustReadCSV(t, string(data)))
	require.NoError(t, err)
	twice, err := Repair(mustReadCSV(t, string(once)))
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}
