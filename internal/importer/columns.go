package importer

import "strings"

// Field is a target attribute of an application that an uploaded column can supply.
type Field string

const (
	FieldFullName          Field = "fullName"
	FieldEmail             Field = "email"
	FieldWhatsappNumber    Field = "whatsappNumber"
	FieldBranch            Field = "branch"
	FieldYear              Field = "year"
	FieldPrimaryRole       Field = "primaryRole"
	FieldSecondaryRole     Field = "secondaryRole"
	FieldWhyThisRole       Field = "whyThisRole"
	FieldPastExperience    Field = "pastExperience"
	FieldHasOtherClubs     Field = "hasOtherClubs"
	FieldOtherClubsDetails Field = "otherClubsDetails"
	FieldTimeAvailability  Field = "timeAvailability"
	FieldStatus            Field = "status"
	FieldAdminRemarks      Field = "adminRemarks"
	FieldFeedback          Field = "feedback"
)

type FieldAliases struct {
	Field   Field
	Aliases []string
}

// aliasTable lists, per field, the header spellings seen across form exports
// and older schema versions. Order matters: earlier aliases win within a tier.
var aliasTable = []FieldAliases{
	{FieldFullName, []string{"Full Name", "fullName", "full_name", "name", "student_name", "studentName"}},
	{FieldEmail, []string{"Email address", "email", "emailId", "email_id", "emailAddress", "email_address"}},
	{FieldWhatsappNumber, []string{"Whatsapp Number  ", "whatsappNumber", "whatsapp_number", "phone", "phoneNumber", "phone_number", "mobile", "WhatsApp Number"}},
	{FieldBranch, []string{"Branch ", "branch", "dept", "department", "course"}},
	{FieldYear, []string{"Year", "year", "yearOfStudy", "year_of_study", "currentYear", "current_year"}},
	{FieldPrimaryRole, []string{"Primary Role", "primaryRole", "primary_role", "firstPreference", "first_preference", "role1"}},
	{FieldSecondaryRole, []string{" Secondary Role  ", "secondaryRole", "secondary_role", "secondaryRoles", "preference2", "role2", "secondChoice", "second_choice"}},
	{FieldWhyThisRole, []string{"Why this role? What's the vibe?  ", "whyThisRole", "why_this_role", "motivation", "reason"}},
	{FieldPastExperience, []string{"Flex a little.  ", "pastExperience", "flexALittle", "flex_a_little", "experience", "skills", "past_experience"}},
	{FieldHasOtherClubs, []string{"Already juggling other clubs?  ", "hasOtherClubs", "alreadyJugglingOtherClubs", "already_juggling_other_clubs", "otherClubs", "other_clubs", "Has Other Clubs"}},
	{FieldOtherClubsDetails, []string{"otherClubsDetails", "other_clubs_details", "Other Clubs Details", "clubDetails"}},
	{FieldTimeAvailability, []string{"Time Availability ", "timeAvailability", "time_availability", "availability", "timeCommitment"}},
	{FieldStatus, []string{"status", "application_status", "Status"}},
	{FieldAdminRemarks, []string{"adminRemarks", "admin_remarks", "remarks", "Admin Remarks"}},
	{FieldFeedback, []string{"feedback", "Feedback", "admin_feedback"}},
}

// Fields returns every target field in table order.
func Fields() []Field {
	fields := make([]Field, 0, len(aliasTable))
	for _, entry := range aliasTable {
		fields = append(fields, entry.Field)
	}
	return fields
}

// Mapping associates a target field with the header that supplies it.
type Mapping map[Field]string

// MatchColumns resolves every field of the alias table against headers.
func MatchColumns(headers []string) Mapping {
	mapping := make(Mapping, len(aliasTable))
	for _, entry := range aliasTable {
		if header, ok := FindColumn(headers, entry.Aliases); ok {
			mapping[entry.Field] = header
		}
	}
	return mapping
}

// FindColumn returns the header matching one of aliases. Tiers are tried in
// order: exact, case-insensitive after trimming, then substring either way.
func FindColumn(headers []string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		for _, header := range headers {
			if header == alias {
				return header, true
			}
		}
	}
	for _, alias := range aliases {
		folded := fold(alias)
		for _, header := range headers {
			if fold(header) == folded {
				return header, true
			}
		}
	}
	for _, alias := range aliases {
		lowerAlias := strings.ToLower(alias)
		for _, header := range headers {
			// an empty header is a substring of everything
			if strings.TrimSpace(header) == "" {
				continue
			}
			lowerHeader := strings.ToLower(header)
			if strings.Contains(lowerHeader, lowerAlias) || strings.Contains(lowerAlias, lowerHeader) {
				return header, true
			}
		}
	}
	return "", false
}

func fold(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Record is one row projected onto the target fields.
type Record map[Field]string

func (r Record) Get(field Field) string {
	return r[field]
}

// Extract projects a row through the mapping. Unmapped fields read as "".
func (m Mapping) Extract(row Row) Record {
	record := make(Record, len(m))
	for field, header := range m {
		record[field] = row.Get(header)
	}
	return record
}
