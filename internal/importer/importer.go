package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"recruitportal/internal/common"
	"recruitportal/internal/domain/application"
)

// Store is the slice of the application repository the importer needs.
type Store interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, app application.Application) (*application.Application, error)
}

type Accepted struct {
	Row      int         `json:"row"`
	Email    string      `json:"email"`
	FullName string      `json:"fullName"`
	ID       common.UUID `json:"id"`
}

type Summary struct {
	TotalProcessed int    `json:"totalProcessed"`
	SuccessRate    string `json:"successRate"`
	FailureRate    string `json:"failureRate"`
}

type Report struct {
	Message                string     `json:"message"`
	TotalRows              int        `json:"totalRows"`
	Successful             int        `json:"successful"`
	Failed                 int        `json:"failed"`
	SuccessfulApplications []Accepted `json:"successfulApplications"`
	ErrorDetails           []RowError `json:"errorDetails"`
	SkippedRows            []int      `json:"skippedRows"`
	ColumnMapping          Mapping    `json:"columnMapping"`
	Summary                Summary    `json:"summary"`
}

type Importer struct {
	store  Store
	logger *slog.Logger
}

func NewImporter(store Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, logger: logger}
}

// Import processes the rows of table in order and persists the ones that pass
// validation. Row failures are collected in the report; Import never aborts
// a batch part way through.
func (im *Importer) Import(ctx context.Context, table *Table, profile Profile) Report {
	report := Report{
		SuccessfulApplications: []Accepted{},
		ErrorDetails:           []RowError{},
		SkippedRows:            []int{},
		ColumnMapping:          Mapping{},
	}
	if table == nil || len(table.Rows) == 0 {
		report.Message = "No records found in CSV file"
		report.Summary = summarize(0, 0, 0)
		return report
	}

	report.TotalRows = len(table.Rows)
	report.ColumnMapping = MatchColumns(table.Headers)
	im.logger.Info("bulk import column mapping detected", slog.Any("mapping", report.ColumnMapping), slog.Int("rows", report.TotalRows))

	validator := newBatchValidator(im.store, profile)
	for _, row := range table.Rows {
		record := report.ColumnMapping.Extract(row)
		if err := ctx.Err(); err != nil {
			report.reject(row, record, rejection{reason: "import cancelled: " + err.Error(), errorType: ErrorTypePersistence})
			continue
		}
		if r := validator.check(ctx, record); r != nil {
			im.logger.Debug("bulk import row rejected", slog.Int("row", row.Number), slog.String("reason", r.reason))
			report.reject(row, record, *r)
			continue
		}
		created, err := im.store.Create(ctx, ToApplication(record))
		if err != nil {
			errorType := ErrorTypePersistence
			if common.Is(err, common.CodeValidation) {
				errorType = ErrorTypeValidation
			}
			im.logger.Debug("bulk import row not persisted", slog.Int("row", row.Number), slog.String("error", err.Error()))
			report.reject(row, record, rejection{reason: describeError(err), errorType: errorType})
			continue
		}
		validator.accept(record.Get(FieldEmail))
		report.SuccessfulApplications = append(report.SuccessfulApplications, Accepted{
			Row:      row.Number,
			Email:    record.Get(FieldEmail),
			FullName: record.Get(FieldFullName),
			ID:       created.ID,
		})
	}

	report.Successful = len(report.SuccessfulApplications)
	report.Failed = len(report.ErrorDetails)
	report.Message = fmt.Sprintf("Bulk upload completed. %d successful, %d failed.", report.Successful, report.Failed)
	report.Summary = summarize(report.TotalRows, report.Successful, report.Failed)
	im.logger.Info("bulk import finished", slog.Int("total", report.TotalRows), slog.Int("successful", report.Successful), slog.Int("failed", report.Failed))
	return report
}

func (r *Report) reject(row Row, record Record, why rejection) {
	r.ErrorDetails = append(r.ErrorDetails, RowError{
		Row:       row.Number,
		Email:     orNA(record.Get(FieldEmail)),
		FullName:  orNA(record.Get(FieldFullName)),
		Error:     why.reason,
		ErrorType: why.errorType,
		RawData:   row.Values(),
	})
	r.SkippedRows = append(r.SkippedRows, row.Number)
}

// ToApplication builds the entity for a mapped row, applying the value
// normalizers. Unknown status values are kept so schema validation rejects them.
func ToApplication(record Record) application.Application {
	flag := record.Get(FieldHasOtherClubs)
	hasOtherClubs, clubDetails := normalizeOtherClubs(flag)
	if details := record.Get(FieldOtherClubsDetails); details != "" {
		clubDetails = details
		// an explicit flag answer wins over the details cell
		if strings.TrimSpace(flag) == "" {
			hasOtherClubs = true
		}
	}
	status, _ := application.ParseStatus(record.Get(FieldStatus))
	app := application.Application{
		FullName:          record.Get(FieldFullName),
		Email:             record.Get(FieldEmail),
		WhatsappNumber:    record.Get(FieldWhatsappNumber),
		Branch:            record.Get(FieldBranch),
		Year:              record.Get(FieldYear),
		PrimaryRole:       NormalizeRole(record.Get(FieldPrimaryRole)),
		SecondaryRoles:    SplitRoles(record.Get(FieldSecondaryRole)),
		WhyThisRole:       record.Get(FieldWhyThisRole),
		PastExperience:    record.Get(FieldPastExperience),
		HasOtherClubs:     hasOtherClubs,
		OtherClubsDetails: clubDetails,
		TimeAvailability:  record.Get(FieldTimeAvailability),
		Status:            status,
		AdminRemarks:      record.Get(FieldAdminRemarks),
		Feedback:          record.Get(FieldFeedback),
	}
	app.Normalize()
	return app
}

func summarize(total, successful, failed int) Summary {
	return Summary{
		TotalProcessed: total,
		SuccessRate:    percent(successful, total),
		FailureRate:    percent(failed, total),
	}
}

func percent(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
