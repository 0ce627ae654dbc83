package importer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"recruitportal/internal/common"
	"recruitportal/internal/domain/application"
)

type Profile string

const (
	// ProfileStandard tolerates free-text department, year and role values.
	ProfileStandard Profile = "standard"
	// ProfileStrict also requires motivation and experience and checks the
	// closed enumerations.
	ProfileStrict Profile = "strict"
)

func ParseProfile(value string) Profile {
	if strings.EqualFold(strings.TrimSpace(value), string(ProfileStrict)) {
		return ProfileStrict
	}
	return ProfileStandard
}

func (p Profile) RequiredFields() []Field {
	fields := []Field{FieldFullName, FieldEmail, FieldWhatsappNumber, FieldBranch, FieldYear, FieldPrimaryRole}
	if p == ProfileStrict {
		fields = append(fields, FieldWhyThisRole, FieldPastExperience)
	}
	return fields
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

const (
	ErrorTypeValidation  = "ValidationError"
	ErrorTypeDuplicate   = "DuplicateError"
	ErrorTypePersistence = "PersistenceError"
)

const (
	reasonInvalidEmail  = "Invalid email format"
	reasonExistsInStore = "Application with this email already exists in database"
	reasonDuplicate     = "Duplicate email found in this CSV batch"
)

// RowError describes a rejected row. RawData echoes the row as uploaded.
type RowError struct {
	Row       int               `json:"row"`
	Email     string            `json:"email"`
	FullName  string            `json:"fullName"`
	Error     string            `json:"error"`
	ErrorType string            `json:"errorType,omitempty"`
	RawData   map[string]string `json:"rawData"`
}

type rejection struct {
	reason    string
	errorType string
}

// missingFields lists required fields that are empty after trimming.
func missingFields(record Record, profile Profile) []Field {
	var missing []Field
	for _, field := range profile.RequiredFields() {
		if strings.TrimSpace(record.Get(field)) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// enumViolations checks the closed enumerations of the strict profile. The
// role is compared after normalization.
func enumViolations(record Record) []string {
	var problems []string
	if branch := record.Get(FieldBranch); branch != "" && !application.IsKnownDepartment(branch) {
		problems = append(problems, "Invalid department: "+branch)
	}
	if year := record.Get(FieldYear); year != "" && !application.IsKnownYear(year) {
		problems = append(problems, "Invalid year: "+year)
	}
	if role := record.Get(FieldPrimaryRole); role != "" && !application.IsCanonicalRole(NormalizeRole(role)) {
		problems = append(problems, "Invalid primary role: "+role)
	}
	return problems
}

// checkShape runs the checks that need nothing but the row itself.
func checkShape(record Record, profile Profile) *rejection {
	if missing := missingFields(record, profile); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, field := range missing {
			names[i] = string(field)
		}
		return &rejection{reason: "Missing required fields: " + strings.Join(names, ", "), errorType: ErrorTypeValidation}
	}
	if !ValidEmail(strings.TrimSpace(record.Get(FieldEmail))) {
		return &rejection{reason: reasonInvalidEmail, errorType: ErrorTypeValidation}
	}
	if profile == ProfileStrict {
		if problems := enumViolations(record); len(problems) > 0 {
			return &rejection{reason: strings.Join(problems, "; "), errorType: ErrorTypeValidation}
		}
	}
	return nil
}

// batchValidator owns the per-batch duplicate state.
type batchValidator struct {
	store     Store
	profile   Profile
	processed map[string]struct{}
}

func newBatchValidator(store Store, profile Profile) *batchValidator {
	return &batchValidator{store: store, profile: profile, processed: make(map[string]struct{})}
}

func (v *batchValidator) check(ctx context.Context, record Record) *rejection {
	if r := checkShape(record, v.profile); r != nil {
		return r
	}
	email := application.NormalizeEmail(record.Get(FieldEmail))
	exists, err := v.store.ExistsByEmail(ctx, email)
	if err != nil {
		return &rejection{reason: describeError(err), errorType: ErrorTypePersistence}
	}
	// rows accepted earlier in this batch are already persisted, so a store
	// hit on one of their emails is an in-batch duplicate
	_, seen := v.processed[email]
	if exists && !seen {
		return &rejection{reason: reasonExistsInStore, errorType: ErrorTypeDuplicate}
	}
	if seen {
		return &rejection{reason: reasonDuplicate, errorType: ErrorTypeDuplicate}
	}
	return nil
}

func (v *batchValidator) accept(email string) {
	v.processed[application.NormalizeEmail(email)] = struct{}{}
}

// describeError renders a persistence error for an operator, spelling out
// per-field validation messages.
func describeError(err error) string {
	var coded *common.Error
	if !errors.As(err, &coded) {
		return err.Error()
	}
	if len(coded.Fields) == 0 {
		return coded.Message
	}
	keys := make([]string, 0, len(coded.Fields))
	for key := range coded.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s: %s", key, coded.Fields[key])
	}
	return coded.Message + ": " + strings.Join(parts, ", ")
}
