package application

import (
	"strings"
	"time"

	"recruitportal/internal/common"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusShortlisted Status = "shortlisted"
	StatusSelected    Status = "selected"
	StatusRejected    Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusShortlisted, StatusSelected, StatusRejected}

type Application struct {
	ID                common.UUID `json:"id"`
	FullName          string      `json:"fullName"`
	Email             string      `json:"email"`
	WhatsappNumber    string      `json:"whatsappNumber"`
	Branch            string      `json:"branch"`
	Year              string      `json:"year"`
	PrimaryRole       string      `json:"primaryRole"`
	SecondaryRoles    []string    `json:"secondaryRoles,omitempty"`
	WhyThisRole       string      `json:"whyThisRole,omitempty"`
	PastExperience    string      `json:"pastExperience,omitempty"`
	HasOtherClubs     bool        `json:"hasOtherClubs"`
	OtherClubsDetails string      `json:"otherClubsDetails,omitempty"`
	TimeAvailability  string      `json:"timeAvailability,omitempty"`
	Status            Status      `json:"status"`
	AdminRemarks      string      `json:"adminRemarks,omitempty"`
	Feedback          string      `json:"feedback,omitempty"`
	SubmittedAt       time.Time   `json:"submittedAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// ParseStatus folds case and whitespace. An empty value is pending.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return StatusPending, true
	}
	return normalized, IsKnownStatus(normalized)
}

func IsKnownStatus(status Status) bool {
	switch status {
	case StatusPending, StatusShortlisted, StatusSelected, StatusRejected:
		return true
	default:
		return false
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize trims every text field, lower-cases the email and defaults the status.
func (a *Application) Normalize() {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Email = NormalizeEmail(a.Email)
	a.WhatsappNumber = strings.TrimSpace(a.WhatsappNumber)
	a.Branch = strings.TrimSpace(a.Branch)
	a.Year = strings.TrimSpace(a.Year)
	a.PrimaryRole = strings.TrimSpace(a.PrimaryRole)
	roles := make([]string, 0, len(a.SecondaryRoles))
	for _, role := range a.SecondaryRoles {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, role)
		}
	}
	a.SecondaryRoles = roles
	a.WhyThisRole = strings.TrimSpace(a.WhyThisRole)
	a.PastExperience = strings.TrimSpace(a.PastExperience)
	a.OtherClubsDetails = strings.TrimSpace(a.OtherClubsDetails)
	a.TimeAvailability = strings.TrimSpace(a.TimeAvailability)
	a.AdminRemarks = strings.TrimSpace(a.AdminRemarks)
	a.Feedback = strings.TrimSpace(a.Feedback)
	if strings.TrimSpace(string(a.Status)) == "" {
		a.Status = StatusPending
	} else {
		a.Status = Status(strings.ToLower(strings.TrimSpace(string(a.Status))))
	}
}

// Validate is the schema check every persistence path runs before writing.
func (a Application) Validate() error {
	fields := map[string]string{}
	if a.FullName == "" {
		fields["fullName"] = "fullName is required"
	}
	if a.Email == "" {
		fields["email"] = "email is required"
	}
	if a.WhatsappNumber == "" {
		fields["whatsappNumber"] = "whatsappNumber is required"
	}
	if a.Branch == "" {
		fields["branch"] = "branch is required"
	}
	if a.Year == "" {
		fields["year"] = "year is required"
	}
	if a.PrimaryRole == "" {
		fields["primaryRole"] = "primaryRole is required"
	}
	if !IsKnownStatus(a.Status) {
		fields["status"] = "`" + string(a.Status) + "` is not a valid status"
	}
	if len(fields) > 0 {
		return common.NewValidationError("application validation failed", fields)
	}
	return nil
}

// TrackingView is what an applicant sees on the status page.
type TrackingView struct {
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Status       Status    `json:"status"`
	SubmittedAt  time.Time `json:"submittedAt"`
	LastUpdated  time.Time `json:"lastUpdated"`
	AdminRemarks string    `json:"adminRemarks"`
	Feedback     string    `json:"feedback"`
}

func (a Application) Tracking() TrackingView {
	return TrackingView{
		FullName:     a.FullName,
		Email:        a.Email,
		Status:       a.Status,
		SubmittedAt:  a.SubmittedAt,
		LastUpdated:  a.UpdatedAt,
		AdminRemarks: a.AdminRemarks,
		Feedback:     a.Feedback,
	}
}
