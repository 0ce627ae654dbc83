package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"recruitportal/internal/common"
	"recruitportal/internal/domain/application"
)

// ApplicationRepository keeps applications in process memory. It backs local
// development and the service tests.
type ApplicationRepository struct {
	mu    sync.RWMutex
	items map[common.UUID]application.Application
	now   func() time.Time
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{
		items: make(map[common.UUID]application.Application),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.Normalize()
	if err := app.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(app.Email, "") {
		return nil, errDuplicateEmail()
	}
	app.ID = common.NewUUID()
	now := r.now()
	app.SubmittedAt = now
	app.UpdatedAt = now
	app.SecondaryRoles = append([]string(nil), app.SecondaryRoles...)
	r.items[app.ID] = app
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.items[id]
	if !ok {
		return nil, errNotFound()
	}
	return &app, nil
}

func (r *ApplicationRepository) FindByEmail(ctx context.Context, email string) (*application.Application, error) {
	email = application.NormalizeEmail(email)
	return r.findFirst(func(app application.Application) bool { return app.Email == email })
}

func (r *ApplicationRepository) FindByWhatsapp(ctx context.Context, number string) (*application.Application, error) {
	return r.findFirst(func(app application.Application) bool { return app.WhatsappNumber == number })
}

func (r *ApplicationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailTaken(application.NormalizeEmail(email), ""), nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter application.Filter) ([]application.Application, int, error) {
	filter = filter.Paged()
	matched := r.matching(filter)
	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *ApplicationRepository) ListAll(ctx context.Context, filter application.Filter) ([]application.Application, error) {
	return r.matching(filter), nil
}

func (r *ApplicationRepository) Update(ctx context.Context, app application.Application) (*application.Application, error) {
	app.Normalize()
	if err := app.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.items[app.ID]
	if !ok {
		return nil, errNotFound()
	}
	if r.emailTaken(app.Email, app.ID) {
		return nil, errDuplicateEmail()
	}
	app.SubmittedAt = current.SubmittedAt
	app.UpdatedAt = r.now()
	r.items[app.ID] = app
	return &app, nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return errNotFound()
	}
	delete(r.items, id)
	return nil
}

func (r *ApplicationRepository) Stats(ctx context.Context) (application.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := application.NewStats()
	roles := map[string]int{}
	departments := map[string]int{}
	years := map[string]int{}
	for _, app := range r.items {
		stats.Total++
		stats.StatusStats[app.Status]++
		roles[app.PrimaryRole]++
		departments[app.Branch]++
		years[app.Year]++
	}
	stats.RoleStats = toCounts(roles)
	stats.DepartmentStats = toCounts(departments)
	stats.YearStats = toCounts(years)
	return stats, nil
}

func (r *ApplicationRepository) matching(filter application.Filter) []application.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]application.Application, 0, len(r.items))
	for _, app := range r.items {
		if filter.Matches(app) {
			items = append(items, app)
		}
	}
	// newest first, like the SQL stores
	sort.Slice(items, func(i, j int) bool {
		if !items[i].SubmittedAt.Equal(items[j].SubmittedAt) {
			return items[i].SubmittedAt.After(items[j].SubmittedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items
}

// findFirst returns the newest match.
func (r *ApplicationRepository) findFirst(match func(application.Application) bool) (*application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *application.Application
	for _, app := range r.items {
		if !match(app) {
			continue
		}
		if found == nil || app.SubmittedAt.After(found.SubmittedAt) {
			candidate := app
			found = &candidate
		}
	}
	if found == nil {
		return nil, errNotFound()
	}
	return found, nil
}

func (r *ApplicationRepository) emailTaken(email string, except common.UUID) bool {
	for id, app := range r.items {
		if id != except && app.Email == email {
			return true
		}
	}
	return false
}

func toCounts(values map[string]int) []application.Count {
	counts := make([]application.Count, 0, len(values))
	for value, count := range values {
		counts = append(counts, application.Count{Value: value, Count: count})
	}
	application.SortCounts(counts)
	return counts
}

func errNotFound() error {
	return common.NewError(common.CodeNotFound, "Application not found", nil)
}

func errDuplicateEmail() error {
	return common.NewError(common.CodeConflict, "An application with this email already exists", nil)
}
