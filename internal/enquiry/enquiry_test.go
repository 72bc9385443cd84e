package enquiry

import (
	"context"
	"database/sql"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/craft-catalog/internal/database"
)

func TestInputValidate(t *testing.T) {
	e, err := Input{Name: " Asha ", Email: "asha@example.com", Message: " Do you ship? ", SourcePage: "/products"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, "Asha", e.Name)
	assert.Equal(t, "Do you ship?", e.Message)

	_, err = Input{Name: "", Email: "nope", Phone: strings.Repeat("9", 51), Message: ""}.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	for _, f := range []string{"name", "email", "phone", "message"} {
		assert.Contains(t, verr.Fields, f)
	}
}

func makeAppWithEnquiryHandler(repo Repository) *fiber.App {
	app := fiber.New()
	h := NewHandler(NewService(repo, nil), nil)
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app, func(c *fiber.Ctx) error {
		if c.Get("X-Admin") == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Next()
	})
	return app
}

func TestSubmitEnquiry(t *testing.T) {
	repo := NewInMemoryRepository()
	app := makeAppWithEnquiryHandler(repo)

	req := httptest.NewRequest("POST", "/api/enquiry", strings.NewReader(`{"name":"Asha","email":"asha@example.com","message":"Is the charpai in stock?"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	bad := httptest.NewRequest("POST", "/api/enquiry", strings.NewReader(`{"name":"Asha","email":"x"}`))
	bad.Header.Set("Content-Type", "application/json")
	res2, err := app.Test(bad)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res2.StatusCode)

	all, _ := repo.List(context.Background())
	require.Len(t, all, 1)
	assert.False(t, all[0].CreatedAt.IsZero())
}

func TestListEnquiries_Guarded(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Create(context.Background(), Enquiry{Name: "first", Email: "a@b.co", Message: "1"})
	repo.Create(context.Background(), Enquiry{Name: "second", Email: "a@b.co", Message: "2"})
	app := makeAppWithEnquiryHandler(repo)

	res, err := app.Test(httptest.NewRequest("GET", "/api/admin/enquiries", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	req := httptest.NewRequest("GET", "/api/admin/enquiries", nil)
	req.Header.Set("X-Admin", "1")
	res2, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res2.StatusCode)

	all, _ := repo.List(context.Background())
	assert.Equal(t, "second", all[0].Name)
}

func TestSQLCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO enquiries`).
		WithArgs("Asha", "asha@example.com", sql.NullString{}, "hello", sql.NullString{String: "/", Valid: true}, at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	repo := NewSQLRepository(db, database.Postgres)
	repo.now = func() time.Time { return at }
	e, err := repo.Create(context.Background(), Enquiry{Name: "Asha", Email: "asha@example.com", Message: "hello", SourcePage: "/"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), e.ID)
	assert.Equal(t, at, e.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLList_ScansCreatedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, name, email, phone, message, source_page, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "message", "source_page", "created_at"}).
			AddRow(int64(2), "Ravi", "r@example.com", nil, "second", nil, at).
			AddRow(int64(1), "Asha", "a@example.com", "+91 98", "first", "/", "2026-02-28 09:00:00"))

	all, err := NewSQLRepository(db, database.Postgres).List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, at, all[0].CreatedAt)
	assert.Equal(t, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC), all[1].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseTime_Rejects(t *testing.T) {
	_, err := parseTime("yesterday")
	assert.Error(t, err)
	_, err = parseTime(42)
	assert.Error(t, err)
}

func TestSQLList_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, email`).WillReturnError(errors.New("boom"))
	_, err = NewSQLRepository(db, database.Postgres).List(context.Background())
	assert.Error(t, err)
}

func TestSQLRepository_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, dialect, err := database.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(ctx, db, dialect))

	repo := NewSQLRepository(db, dialect)
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }
	_, err = repo.Create(ctx, Enquiry{Name: "one", Email: "a@b.co", Message: "m1"})
	require.NoError(t, err)
	repo.now = func() time.Time { return first.Add(time.Hour) }
	_, err = repo.Create(ctx, Enquiry{Name: "two", Email: "a@b.co", Phone: "+91 98", Message: "m2"})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "two", all[0].Name)
	assert.Equal(t, "+91 98", all[0].Phone)
	assert.Empty(t, all[1].Phone)
	assert.True(t, all[0].CreatedAt.Equal(first.Add(time.Hour)), "got %v", all[0].CreatedAt)
	assert.True(t, all[1].CreatedAt.Equal(first), "got %v", all[1].CreatedAt)
}
