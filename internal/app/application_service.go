package app

import (
	"context"
	"log/slog"
	"strings"

	"recruitportal/internal/common"
	"recruitportal/internal/domain/application"
	"recruitportal/internal/importer"
)

type ApplicationService struct {
	repo     application.Repository
	importer *importer.Importer
	recorder ImportRecorder
	logger   *slog.Logger
}

func NewApplicationService(repo application.Repository, recorder ImportRecorder, logger *slog.Logger) *ApplicationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationService{
		repo:     repo,
		importer: importer.NewImporter(repo, logger),
		recorder: recorder,
		logger:   logger,
	}
}

type SubmitInput struct {
	FullName          string   `json:"fullName" validate:"required,max=120"`
	Email             string   `json:"email" validate:"required,email"`
	WhatsappNumber    string   `json:"whatsappNumber" validate:"required,max=20"`
	Branch            string   `json:"branch" validate:"required,department"`
	Year              string   `json:"year" validate:"required,year"`
	PrimaryRole       string   `json:"primaryRole" validate:"required,role"`
	SecondaryRole     string   `json:"secondaryRole" validate:"omitempty,role"`
	SecondaryRoles    []string `json:"secondaryRoles" validate:"omitempty,dive,role"`
	WhyThisRole       string   `json:"whyThisRole" validate:"required,max=2000"`
	PastExperience    string   `json:"pastExperience" validate:"required,max=2000"`
	HasOtherClubs     FlexBool `json:"hasOtherClubs"`
	OtherClubsDetails string   `json:"otherClubsDetails" validate:"max=500"`
	TimeAvailability  string   `json:"timeAvailability" validate:"max=200"`
}

func (in *SubmitInput) Normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = application.NormalizeEmail(in.Email)
	in.WhatsappNumber = strings.TrimSpace(in.WhatsappNumber)
	in.Branch = strings.TrimSpace(in.Branch)
	in.Year = strings.TrimSpace(in.Year)
	in.PrimaryRole = strings.TrimSpace(in.PrimaryRole)
	in.SecondaryRole = strings.TrimSpace(in.SecondaryRole)
	in.WhyThisRole = strings.TrimSpace(in.WhyThisRole)
	in.PastExperience = strings.TrimSpace(in.PastExperience)
	in.OtherClubsDetails = strings.TrimSpace(in.OtherClubsDetails)
	in.TimeAvailability = strings.TrimSpace(in.TimeAvailability)
}

func (in SubmitInput) toApplication() application.Application {
	return application.Application{
		FullName:          in.FullName,
		Email:             in.Email,
		WhatsappNumber:    in.WhatsappNumber,
		Branch:            in.Branch,
		Year:              in.Year,
		PrimaryRole:       importer.NormalizeRole(in.PrimaryRole),
		SecondaryRoles:    mergeRoles(in.SecondaryRole, in.SecondaryRoles),
		WhyThisRole:       in.WhyThisRole,
		PastExperience:    in.PastExperience,
		HasOtherClubs:     bool(in.HasOtherClubs) || in.OtherClubsDetails != "",
		OtherClubsDetails: in.OtherClubsDetails,
		TimeAvailability:  in.TimeAvailability,
		Status:            application.StatusPending,
	}
}

type SubmitResult struct {
	Message       string      `json:"message"`
	ApplicationID common.UUID `json:"applicationId"`
}

// Submit handles the public form. Status is always pending regardless of input.
func (s *ApplicationService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	in.Normalize()
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.NewError(common.CodeConflict, "An application with this email already exists", nil)
	}
	created, err := s.repo.Create(ctx, in.toApplication())
	if err != nil {
		return nil, err
	}
	s.logger.Info("application submitted", slog.String("application_id", created.ID.String()))
	return &SubmitResult{Message: "Application submitted successfully", ApplicationID: created.ID}, nil
}

type AdminInput struct {
	FullName          string   `json:"fullName" validate:"required"`
	Email             string   `json:"email" validate:"required,email"`
	WhatsappNumber    string   `json:"whatsappNumber" validate:"required"`
	Branch            string   `json:"branch" validate:"required"`
	Year              string   `json:"year" validate:"required"`
	PrimaryRole       string   `json:"primaryRole" validate:"required"`
	SecondaryRole     string   `json:"secondaryRole"`
	SecondaryRoles    []string `json:"secondaryRoles"`
	WhyThisRole       string   `json:"whyThisRole"`
	PastExperience    string   `json:"pastExperience"`
	HasOtherClubs     FlexBool `json:"hasOtherClubs"`
	OtherClubsDetails string   `json:"otherClubsDetails"`
	TimeAvailability  string   `json:"timeAvailability"`
	Status            string   `json:"status" validate:"omitempty,status"`
	AdminRemarks      string   `json:"adminRemarks"`
	Feedback          string   `json:"feedback"`
}

// CreateByAdmin records an application entered by staff. Free-text
// department, year and role values are accepted.
func (s *ApplicationService) CreateByAdmin(ctx context.Context, in AdminInput) (*application.Application, error) {
	in.Email = application.NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.WhatsappNumber = strings.TrimSpace(in.WhatsappNumber)
	in.Branch = strings.TrimSpace(in.Branch)
	in.Year = strings.TrimSpace(in.Year)
	in.PrimaryRole = strings.TrimSpace(in.PrimaryRole)
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	status, _ := application.ParseStatus(in.Status)
	app := application.Application{
		FullName:          in.FullName,
		Email:             in.Email,
		WhatsappNumber:    in.WhatsappNumber,
		Branch:            in.Branch,
		Year:              in.Year,
		PrimaryRole:       importer.NormalizeRole(in.PrimaryRole),
		SecondaryRoles:    mergeRoles(in.SecondaryRole, in.SecondaryRoles),
		WhyThisRole:       in.WhyThisRole,
		PastExperience:    in.PastExperience,
		HasOtherClubs:     bool(in.HasOtherClubs) || strings.TrimSpace(in.OtherClubsDetails) != "",
		OtherClubsDetails: in.OtherClubsDetails,
		TimeAvailability:  in.TimeAvailability,
		Status:            status,
		AdminRemarks:      in.AdminRemarks,
		Feedback:          in.Feedback,
	}
	return s.repo.Create(ctx, app)
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID) (*application.Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ApplicationService) Delete(ctx context.Context, id common.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("application deleted", slog.String("application_id", id.String()))
	return nil
}

// Patch carries the fields an admin edit may change; nil means unchanged.
type Patch struct {
	FullName          *string   `json:"fullName"`
	Email             *string   `json:"email" validate:"omitempty,email"`
	WhatsappNumber    *string   `json:"whatsappNumber"`
	Branch            *string   `json:"branch"`
	Year              *string   `json:"year"`
	PrimaryRole       *string   `json:"primaryRole"`
	SecondaryRoles    *[]string `json:"secondaryRoles"`
	WhyThisRole       *string   `json:"whyThisRole"`
	PastExperience    *string   `json:"pastExperience"`
	HasOtherClubs     *FlexBool `json:"hasOtherClubs"`
	OtherClubsDetails *string   `json:"otherClubsDetails"`
	TimeAvailability  *string   `json:"timeAvailability"`
	Status            *string   `json:"status" validate:"omitempty,status"`
	AdminRemarks      *string   `json:"adminRemarks"`
	Feedback          *string   `json:"feedback"`
}

func (p Patch) apply(app *application.Application) {
	setString(&app.FullName, p.FullName)
	setString(&app.Email, p.Email)
	setString(&app.WhatsappNumber, p.WhatsappNumber)
	setString(&app.Branch, p.Branch)
	setString(&app.Year, p.Year)
	if p.PrimaryRole != nil {
		app.PrimaryRole = importer.NormalizeRole(*p.PrimaryRole)
	}
	if p.SecondaryRoles != nil {
		app.SecondaryRoles = mergeRoles("", *p.SecondaryRoles)
	}
	setString(&app.WhyThisRole, p.WhyThisRole)
	setString(&app.PastExperience, p.PastExperience)
	if p.HasOtherClubs != nil {
		app.HasOtherClubs = bool(*p.HasOtherClubs)
	}
	setString(&app.OtherClubsDetails, p.OtherClubsDetails)
	setString(&app.TimeAvailability, p.TimeAvailability)
	if p.Status != nil {
		app.Status, _ = application.ParseStatus(*p.Status)
	}
	setString(&app.AdminRemarks, p.AdminRemarks)
	setString(&app.Feedback, p.Feedback)
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

func (s *ApplicationService) Update(ctx context.Context, id common.UUID, patch Patch) (*application.Application, error) {
	if err := validate.Struct(patch); err != nil {
		return nil, validationError(err)
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.apply(app)
	return s.repo.Update(ctx, *app)
}

type StatusUpdate struct {
	Status       string  `json:"status" validate:"required,status"`
	AdminRemarks *string `json:"adminRemarks"`
	Feedback     *string `json:"feedback"`
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, id common.UUID, in StatusUpdate) (*application.Application, error) {
	in.Status = strings.TrimSpace(in.Status)
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	app.Status, _ = application.ParseStatus(in.Status)
	setString(&app.AdminRemarks, in.AdminRemarks)
	setString(&app.Feedback, in.Feedback)
	updated, err := s.repo.Update(ctx, *app)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application status updated", slog.String("application_id", id.String()), slog.String("status", string(updated.Status)))
	return updated, nil
}

type TrackInput struct {
	WhatsappNumber string `json:"whatsappNumber" validate:"required"`
}

// Track lets an applicant look up their own status by WhatsApp number.
func (s *ApplicationService) Track(ctx context.Context, in TrackInput) (*application.TrackingView, error) {
	in.WhatsappNumber = strings.TrimSpace(in.WhatsappNumber)
	if err := validate.Struct(in); err != nil {
		coded := validationError(err)
		coded.Message = "WhatsApp number is required"
		return nil, coded
	}
	app, err := s.repo.FindByWhatsapp(ctx, in.WhatsappNumber)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "No application found with this WhatsApp number", nil)
		}
		return nil, err
	}
	view := app.Tracking()
	return &view, nil
}

type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

type ListResult struct {
	Applications []application.Application `json:"applications"`
	Pagination   Pagination                `json:"pagination"`
}

func (s *ApplicationService) List(ctx context.Context, filter application.Filter) (*ListResult, error) {
	filter = filter.Paged()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []application.Application{}
	}
	pages := (total + filter.Limit - 1) / filter.Limit
	return &ListResult{
		Applications: items,
		Pagination:   Pagination{Current: filter.Page, Pages: pages, Total: total},
	}, nil
}

func (s *ApplicationService) Stats(ctx context.Context) (application.Stats, error) {
	return s.repo.Stats(ctx)
}

// Export returns every application matching filter, newest first, without paging.
func (s *ApplicationService) Export(ctx context.Context, filter application.Filter) ([]application.Application, error) {
	items, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []application.Application{}
	}
	return items, nil
}

func mergeRoles(single string, many []string) []string {
	parts := append([]string{single}, many...)
	return importer.SplitRoles(strings.Join(parts, ";"))
}

// ImportRecorder observes bulk import outcomes. A nil recorder is allowed.
type ImportRecorder interface {
	ImportBatch(result string)
	ImportRows(result string, n int)
}

const (
	BatchOK         = "ok"
	BatchParseError = "parse_error"
)

// Import reads an uploaded CSV or XLSX file and runs the batch importer over
// it. Only an unreadable upload is returned as an error; row problems are in
// the report.
func (s *ApplicationService) Import(ctx context.Context, data []byte, profile importer.Profile) (*importer.Report, error) {
	table, err := importer.ReadUpload(data)
	if err != nil {
		s.recordBatch(BatchParseError)
		return nil, err
	}
	report := s.importer.Import(ctx, table, profile)
	s.recordBatch(BatchOK)
	if s.recorder != nil {
		s.recorder.ImportRows("accepted", report.Successful)
		s.recorder.ImportRows("rejected", report.Failed)
	}
	return &report, nil
}

func (s *ApplicationService) recordBatch(result string) {
	if s.recorder != nil {
		s.recorder.ImportBatch(result)
	}
}

// Debug describes how an upload would be interpreted without persisting it.
func (s *ApplicationService) Debug(data []byte) (*importer.DebugReport, error) {
	table, err := importer.ReadUpload(data)
	if err != nil {
		return nil, err
	}
	report := importer.Diagnose(table)
	return &report, nil
}

// Check dry-runs the strict profile over the first rows of an upload.
func (s *ApplicationService) Check(data []byte) (*importer.CheckReport, error) {
	table, err := importer.ReadUpload(data)
	if err != nil {
		return nil, err
	}
	report := importer.Check(table)
	return &report, nil
}

// Repair rewrites an upload as a CSV the strict profile accepts more often.
func (s *ApplicationService) Repair(data []byte) ([]byte, error) {
	table, err := importer.ReadUpload(data)
	if err != nil {
		return nil, err
	}
	return importer.Repair(table)
}

func (s *ApplicationService) Template() ([]byte, error) {
	return importer.Template()
}
