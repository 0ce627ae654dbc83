package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"recruitportal/internal/domain/application"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat defaults to CSV; ok is false for anything unrecognised.
func ParseFormat(value string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatCSV:
		return FormatCSV, true
	case FormatJSON:
		return FormatJSON, true
	case FormatXLSX:
		return FormatXLSX, true
	default:
		return "", false
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

func Filename(format Format, at time.Time) string {
	return fmt.Sprintf("applications_%s.%s", at.UTC().Format("2006-01-02"), format)
}

// Headers are chosen so that an exported sheet imports back without edits.
var Headers = []string{
	"Full Name",
	"Email",
	"WhatsApp Number",
	"Department",
	"Year",
	"Primary Role",
	"Secondary Role",
	"Why This Role",
	"Past Experience",
	"Has Other Clubs",
	"Other Clubs Details",
	"Time Availability",
	"Status",
	"Admin Remarks",
	"Feedback",
	"Submitted At",
}

func row(app application.Application) []string {
	return []string{
		app.FullName,
		app.Email,
		app.WhatsappNumber,
		app.Branch,
		app.Year,
		app.PrimaryRole,
		strings.Join(app.SecondaryRoles, "; "),
		app.WhyThisRole,
		app.PastExperience,
		yesNo(app.HasOtherClubs),
		app.OtherClubsDetails,
		app.TimeAvailability,
		string(app.Status),
		app.AdminRemarks,
		app.Feedback,
		app.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func WriteCSV(w io.Writer, apps []application.Application) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Headers); err != nil {
		return err
	}
	for _, app := range apps {
		if err := writer.Write(row(app)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

const sheetName = "Applications"

func WriteXLSX(w io.Writer, apps []application.Application) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName(book.GetSheetName(0), sheetName); err != nil {
		return err
	}
	bold, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := setRow(book, 1, Headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(Headers), 1)
	if err != nil {
		return err
	}
	if err := book.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return err
	}
	for i, app := range apps {
		if err := setRow(book, i+2, row(app)); err != nil {
			return err
		}
	}
	lastColumn, err := excelize.ColumnNumberToName(len(Headers))
	if err != nil {
		return err
	}
	if err := book.SetColWidth(sheetName, "A", lastColumn, 24); err != nil {
		return err
	}
	return book.Write(w)
}

func setRow(book *excelize.File, number int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, number)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
	}
	return book.SetSheetRow(sheetName, cell, &cells)
}

// Document is the JSON export envelope.
type Document struct {
	Data         []application.Application `json:"data"`
	ExportedAt   time.Time                 `json:"exportedAt"`
	TotalRecords int                       `json:"totalRecords"`
	Filters      Filters                   `json:"filters"`
}

type Filters struct {
	Status string `json:"status"`
	Role   string `json:"role"`
	Search string `json:"search"`
}

func NewDocument(apps []application.Application, filter application.Filter, at time.Time) Document {
	if apps == nil {
		apps = []application.Application{}
	}
	return Document{
		Data:         apps,
		ExportedAt:   at.UTC(),
		TotalRecords: len(apps),
		Filters:      Filters{Status: string(filter.Status), Role: filter.Role, Search: filter.Search},
	}
}
