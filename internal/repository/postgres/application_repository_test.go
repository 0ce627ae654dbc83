package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitportal/internal/common"
	"recruitportal/internal/domain/application"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newMockRepo(t *testing.T) (*ApplicationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewApplicationRepository(db)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func validApplication() application.Application {
	return application.Application{
		FullName:       "Ana",
		Email:          "Ana@Example.com",
		WhatsappNumber: "9876543210",
		Branch:         application.Departments[0],
		Year:           application.Years[1],
		PrimaryRole:    application.RoleDesign,
		SecondaryRoles: []string{application.RoleEvents},
	}
}

func applicationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "full_name", "email", "whatsapp_number", "branch", "year", "primary_role", "secondary_roles",
		"why_this_role", "past_experience", "has_other_clubs", "other_clubs_details", "time_availability",
		"status", "admin_remarks", "feedback", "submitted_at", "updated_at"})
}

func addRow(rows *sqlmock.Rows, id, email string) *sqlmock.Rows {
	return rows.AddRow(id, "Ana", email, "9876543210", application.Departments[0], application.Years[1], application.RoleDesign,
		`{"`+application.RoleEvents+`","`+application.RoleOperations+`"}`,
		"", "", true, "Drama", "", "shortlisted", "", "", fixedNow, fixedNow)
}

func TestCreateInsertsNormalizedRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WithArgs(sqlmock.AnyArg(), "Ana", "ana@example.com", "9876543210", application.Departments[0], application.Years[1], application.RoleDesign,
			`{"`+application.RoleEvents+`"}`, "", "", false, "", "", application.StatusPending, "", "", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.Create(context.Background(), validApplication())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, fixedNow, created.SubmittedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsUniqueViolationToConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_email_key"})

	_, err := repo.Create(context.Background(), validApplication())
	assert.True(t, common.Is(err, common.CodeConflict))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateValidatesBeforeWriting(t *testing.T) {
	repo, mock := newMockRepo(t)
	app := validApplication()
	app.PrimaryRole = ""

	_, err := repo.Create(context.Background(), app)
	assert.True(t, common.Is(err, common.CodeValidation))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDScansArrayColumn(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := common.NewUUID()
	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(addRow(applicationRows(), id.String(), "ana@example.com"))

	app, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, app.ID)
	assert.Equal(t, []string{application.RoleEvents, application.RoleOperations}, app.SecondaryRoles)
	assert.Equal(t, application.StatusShortlisted, app.Status)
	assert.True(t, app.HasOtherClubs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE id = $1")).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), common.NewUUID())
	assert.True(t, common.Is(err, common.CodeNotFound))
}

func TestExistsByEmailLowercases(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), " ANA@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListBuildsFilteredPagedQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	filter := application.Filter{Status: application.StatusShortlisted, Role: "design", Search: "50%", Page: 2, Limit: 5}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM applications WHERE status = $1 AND (primary_role ILIKE $2 OR EXISTS (SELECT 1 FROM unnest(secondary_roles) AS role WHERE role ILIKE $2)) AND (full_name ILIKE $3 OR email ILIKE $3 OR whatsapp_number ILIKE $3)`)).
		WithArgs(application.StatusShortlisted, "%design%", `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY submitted_at DESC, id DESC LIMIT $4 OFFSET $5")).
		WithArgs(application.StatusShortlisted, "%design%", `%50\%%`, 5, 5).
		WillReturnRows(addRow(applicationRows(), common.NewUUID().String(), "ana@example.com"))

	items, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, items, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithoutFiltersUsesDefaults(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM applications")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(application.DefaultPageLimit, 0).
		WillReturnRows(applicationRows())

	items, total, err := repo.List(context.Background(), application.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	app := validApplication()
	app.ID = common.NewUUID()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE applications SET")).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), app)
	assert.True(t, common.Is(err, common.CodeNotFound))
}

func TestUpdateReturnsSubmittedAt(t *testing.T) {
	repo, mock := newMockRepo(t)
	app := validApplication()
	app.ID = common.NewUUID()
	submitted := fixedNow.Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE applications SET")).
		WillReturnRows(sqlmock.NewRows([]string{"submitted_at"}).AddRow(submitted))

	updated, err := repo.Update(context.Background(), app)
	require.NoError(t, err)
	assert.Equal(t, submitted, updated.SubmittedAt)
	assert.Equal(t, fixedNow, updated.UpdatedAt)
}

func TestDeleteMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM applications")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), common.NewUUID())
	assert.True(t, common.Is(err, common.CodeNotFound))
}

func TestStatsAggregatesGroups(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("pending", 3).AddRow("selected", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT primary_role, COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"primary_role", "count"}).AddRow(application.RoleDesign, 4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT branch, COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"branch", "count"}).AddRow(application.Departments[0], 4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT year, COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"year", "count"}))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.StatusStats[application.StatusPending])
	assert.Equal(t, 0, stats.StatusStats[application.StatusRejected])
	assert.Equal(t, []application.Count{{Value: application.RoleDesign, Count: 4}}, stats.RoleStats)
	assert.Empty(t, stats.YearStats)
	assert.NotNil(t, stats.YearStats)
	require.NoError(t, mock.ExpectationsWereMet())
}
