package application

import (
	"context"
	"sort"
	"strings"

	"recruitportal/internal/common"
)

type Filter struct {
	Status Status
	Role   string
	Search string
	Page   int
	Limit  int
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Paged fills in defaults for listing.
func (f Filter) Paged() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	return f
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Count struct {
	Value string `json:"_id"`
	Count int    `json:"count"`
}

type Stats struct {
	Total           int            `json:"total"`
	StatusStats     map[Status]int `json:"statusStats"`
	RoleStats       []Count        `json:"roleStats"`
	DepartmentStats []Count        `json:"departmentStats"`
	YearStats       []Count        `json:"yearStats"`
}

func NewStats() Stats {
	statuses := make(map[Status]int, len(Statuses))
	for _, status := range Statuses {
		statuses[status] = 0
	}
	return Stats{
		StatusStats:     statuses,
		RoleStats:       []Count{},
		DepartmentStats: []Count{},
		YearStats:       []Count{},
	}
}

type Repository interface {
	Create(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByEmail(ctx context.Context, email string) (*Application, error)
	FindByWhatsapp(ctx context.Context, number string) (*Application, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter Filter) ([]Application, int, error)
	ListAll(ctx context.Context, filter Filter) ([]Application, error)
	Update(ctx context.Context, app Application) (*Application, error)
	Delete(ctx context.Context, id common.UUID) error
	Stats(ctx context.Context) (Stats, error)
}

// Matches applies the filter to a single application. Stores that cannot push
// filtering down to a query language use it directly.
func (f Filter) Matches(a Application) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if role := strings.ToLower(strings.TrimSpace(f.Role)); role != "" {
		found := strings.Contains(strings.ToLower(a.PrimaryRole), role)
		for _, secondary := range a.SecondaryRoles {
			if found {
				break
			}
			found = strings.Contains(strings.ToLower(secondary), role)
		}
		if !found {
			return false
		}
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		if !strings.Contains(strings.ToLower(a.FullName), search) &&
			!strings.Contains(strings.ToLower(a.Email), search) &&
			!strings.Contains(strings.ToLower(a.WhatsappNumber), search) {
			return false
		}
	}
	return true
}

// SortCounts orders by count descending, then by value.
func SortCounts(counts []Count) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Value < counts[j].Value
	})
}
