package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"recruitportal/internal/common"
	"recruitportal/internal/domain/application"
)

const uniqueViolation = "23505"

const applicationColumns = `id, full_name, email, whatsapp_number, branch, year, primary_role, secondary_roles,
	why_this_role, past_experience, has_other_clubs, other_clubs_details, time_availability,
	status, admin_remarks, feedback, submitted_at, updated_at`

type ApplicationRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.Normalize()
	if err := app.Validate(); err != nil {
		return nil, err
	}
	app.ID = common.NewUUID()
	now := r.now()
	app.SubmittedAt = now
	app.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		app.ID, app.FullName, app.Email, app.WhatsappNumber, app.Branch, app.Year, app.PrimaryRole, pq.Array(app.SecondaryRoles),
		app.WhyThisRole, app.PastExperience, app.HasOtherClubs, app.OtherClubsDetails, app.TimeAvailability,
		app.Status, app.AdminRemarks, app.Feedback, app.SubmittedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "An application with this email already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanOne(row)
}

func (r *ApplicationRepository) FindByEmail(ctx context.Context, email string) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE email = $1`, application.NormalizeEmail(email))
	return scanOne(row)
}

func (r *ApplicationRepository) FindByWhatsapp(ctx context.Context, number string) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE whatsapp_number = $1 ORDER BY submitted_at DESC LIMIT 1`, strings.TrimSpace(number))
	return scanOne(row)
}

func (r *ApplicationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE email = $1)`, application.NormalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to check email", err)
	}
	return exists, nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter application.Filter) ([]application.Application, int, error) {
	filter = filter.Paged()
	where, args := whereClause(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`+where, args...).Scan(&total); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM applications%s ORDER BY submitted_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		applicationColumns, where, len(args)-1, len(args))
	items, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ApplicationRepository) ListAll(ctx context.Context, filter application.Filter) ([]application.Application, error) {
	where, args := whereClause(filter)
	return r.query(ctx, `SELECT `+applicationColumns+` FROM applications`+where+` ORDER BY submitted_at DESC, id DESC`, args...)
}

func (r *ApplicationRepository) Update(ctx context.Context, app application.Application) (*application.Application, error) {
	app.Normalize()
	if err := app.Validate(); err != nil {
		return nil, err
	}
	app.UpdatedAt = r.now()
	row := r.db.QueryRowContext(ctx, `UPDATE applications SET
		full_name = $2, email = $3, whatsapp_number = $4, branch = $5, year = $6, primary_role = $7, secondary_roles = $8,
		why_this_role = $9, past_experience = $10, has_other_clubs = $11, other_clubs_details = $12, time_availability = $13,
		status = $14, admin_remarks = $15, feedback = $16, updated_at = $17
		WHERE id = $1 RETURNING submitted_at`,
		app.ID, app.FullName, app.Email, app.WhatsappNumber, app.Branch, app.Year, app.PrimaryRole, pq.Array(app.SecondaryRoles),
		app.WhyThisRole, app.PastExperience, app.HasOtherClubs, app.OtherClubsDetails, app.TimeAvailability,
		app.Status, app.AdminRemarks, app.Feedback, app.UpdatedAt)
	if err := row.Scan(&app.SubmittedAt); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.NewError(common.CodeNotFound, "Application not found", err)
		case isUniqueViolation(err):
			return nil, common.NewError(common.CodeConflict, "An application with this email already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete application", err)
	}
	if affected == 0 {
		return common.NewError(common.CodeNotFound, "Application not found", nil)
	}
	return nil
}

func (r *ApplicationRepository) Stats(ctx context.Context) (application.Stats, error) {
	stats := application.NewStats()
	statuses, err := r.groupCount(ctx, "status")
	if err != nil {
		return stats, err
	}
	for _, count := range statuses {
		stats.StatusStats[application.Status(count.Value)] = count.Count
		stats.Total += count.Count
	}
	if stats.RoleStats, err = r.groupCount(ctx, "primary_role"); err != nil {
		return stats, err
	}
	if stats.DepartmentStats, err = r.groupCount(ctx, "branch"); err != nil {
		return stats, err
	}
	if stats.YearStats, err = r.groupCount(ctx, "year"); err != nil {
		return stats, err
	}
	return stats, nil
}

// groupCount runs a GROUP BY over a fixed column name; it is never fed user input.
func (r *ApplicationRepository) groupCount(ctx context.Context, column string) ([]application.Count, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT %[1]s, COUNT(*) FROM applications GROUP BY %[1]s ORDER BY COUNT(*) DESC, %[1]s`, column))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load statistics", err)
	}
	defer rows.Close()
	counts := []application.Count{}
	for rows.Next() {
		var count application.Count
		if err := rows.Scan(&count.Value, &count.Count); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan statistics", err)
		}
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load statistics", err)
	}
	return counts, nil
}

func (r *ApplicationRepository) query(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	items := []application.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, app)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	return items, nil
}

func whereClause(filter application.Filter) (string, []any) {
	var conditions []string
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if role := strings.TrimSpace(filter.Role); role != "" {
		args = append(args, likePattern(role))
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(primary_role ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(secondary_roles) AS role WHERE role ILIKE $%d))", n, n))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, likePattern(search))
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d OR whatsapp_number ILIKE $%d)", n, n, n))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}

func scanOne(row rowScanner) (*application.Application, error) {
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "Application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return &app, nil
}

func scanApplication(row rowScanner) (application.Application, error) {
	var app application.Application
	var roles pq.StringArray
	err := row.Scan(&app.ID, &app.FullName, &app.Email, &app.WhatsappNumber, &app.Branch, &app.Year, &app.PrimaryRole, &roles,
		&app.WhyThisRole, &app.PastExperience, &app.HasOtherClubs, &app.OtherClubsDetails, &app.TimeAvailability,
		&app.Status, &app.AdminRemarks, &app.Feedback, &app.SubmittedAt, &app.UpdatedAt)
	if err != nil {
		return app, err
	}
	app.SecondaryRoles = []string(roles)
	return app, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
