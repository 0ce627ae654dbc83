package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindColumnPrefersExactMatch(t *testing.T) {
	aliases := []string{"Email address", "email"}
	headers := []string{"email address", "EMAIL", "Email address"}

	header, ok := FindColumn(headers, aliases)
	require.True(t, ok)
	assert.Equal(t, "Email address", header)
}

func TestFindColumnExactBeatsEarlierAliasInLaterTier(t *testing.T) {
	// "name" is an exact header, while "Full Name" only matches case-insensitively
	aliases := []string{"Full Name", "name"}
	headers := []string{"FULL NAME", "name"}

	header, ok := FindColumn(headers, aliases)
	require.True(t, ok)
	assert.Equal(t, "name", header)
}

func TestFindColumnCaseInsensitiveTrimmed(t *testing.T) {
	header, ok := FindColumn([]string{"id", "  WhatsApp number "}, []string{"Whatsapp Number  "})
	require.True(t, ok)
	assert.Equal(t, "  WhatsApp number ", header)
}

func TestFindColumnSubstringEitherDirection(t *testing.T) {
	header, ok := FindColumn([]string{"Student Email Address (college)"}, []string{"Email address"})
	require.True(t, ok)
	assert.Equal(t, "Student Email Address (college)", header)

	header, ok = FindColumn([]string{"Dept"}, []string{"department"})
	require.False(t, ok, "dept is not a substring of department")

	header, ok = FindColumn([]string{"Year"}, []string{"year_of_study", "yearOfStudy"})
	require.True(t, ok)
	assert.Equal(t, "Year", header)
}

func TestFindColumnSkipsEmptyHeaders(t *testing.T) {
	_, ok := FindColumn([]string{"", "  "}, []string{"email"})
	assert.False(t, ok)
}

func TestMatchColumnsWithFormHeaders(t *testing.T) {
	headers := []string{"Full Name", "Email address", "Whatsapp Number", "Branch", "Year", "Primary Role"}

	mapping := MatchColumns(headers)
	assert.Equal(t, Mapping{
		FieldFullName:       "Full Name",
		FieldEmail:          "Email address",
		FieldWhatsappNumber: "Whatsapp Number",
		FieldBranch:         "Branch",
		FieldYear:           "Year",
		FieldPrimaryRole:    "Primary Role",
	}, mapping)
}

func TestMatchColumnsTemplateHeadersMapToThemselves(t *testing.T) {
	mapping := MatchColumns(TemplateHeaders())
	for _, field := range Fields() {
		assert.Equal(t, string(field), mapping[field], "field %s", field)
	}
}

func TestExtractDefaultsUnmappedFieldsToEmpty(t *testing.T) {
	table := newTable([]string{"email"})
	table.appendRow([]string{"a@b.com"})

	record := MatchColumns(table.Headers).Extract(table.Rows[0])
	assert.Equal(t, "a@b.com", record.Get(FieldEmail))
	assert.Equal(t, "", record.Get(FieldFullName))
}
