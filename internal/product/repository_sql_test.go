package product

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/wichananm65/craft-catalog/internal/database"
)

var productColumns = []string{"id", "name", "price", "description", "image", "category"}

func TestSQLList_ServerOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewSQLRepository(db, database.Postgres)

	rows := sqlmock.NewRows(productColumns).
		AddRow(2, "Teak Charpai", 4500, "Hand-woven", "/uploads/b.jpg", "wood").
		AddRow(1, "Ker Sangri", 250, nil, "/uploads/a.jpg", nil)
	mock.ExpectQuery("ORDER BY created_at DESC, id DESC").WillReturnRows(rows)

	all, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != 2 || all[1].ID != 1 {
		t.Fatalf("unexpected products %+v", all)
	}
	if all[0].Category == nil || *all[0].Category != "wood" {
		t.Fatalf("expected category hint, got %v", all[0].Category)
	}
	if all[1].Category != nil || all[1].Description != "" {
		t.Fatalf("expected NULLs to map to zero values, got %+v", all[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLList_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewSQLRepository(db, database.Postgres)

	mock.ExpectQuery("FROM products").WillReturnError(errors.New("no such table"))
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSQLGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewSQLRepository(db, database.Postgres)

	mock.ExpectQuery("WHERE id = \\$1").WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLCreate_ReturnsID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewSQLRepository(db, database.Postgres)

	cat := "brass"
	mock.ExpectQuery("INSERT INTO products").
		WithArgs("Brass Idol", int64(1200), "", "/uploads/idol.png", sql.NullString{String: "brass", Valid: true}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(17))

	p, err := repo.Create(context.Background(), Product{Name: "Brass Idol", Price: 1200, Image: "/uploads/idol.png", Category: &cat})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID != 17 {
		t.Fatalf("expected id 17, got %d", p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLUpdate_KeepsImageWhenEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewSQLRepository(db, database.SQLite)

	mock.ExpectExec("SET name = \\?,\\s+price = \\?,\\s+description = \\?,\\s+category = \\?\\s+WHERE id = \\?").
		WithArgs("Sofa", int64(9000), "teak", sql.NullString{}, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("WHERE id = \\?").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(productColumns).AddRow(3, "Sofa", 9000, "teak", "/uploads/old.jpg", nil))

	p, err := repo.Update(context.Background(), 3, Product{Name: "Sofa", Price: 9000, Description: "teak"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Image != "/uploads/old.jpg" {
		t.Fatalf("expected stored image to be kept, got %q", p.Image)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLUpdateAndDelete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewSQLRepository(db, database.Postgres)

	mock.ExpectExec("image = \\$5").WillReturnResult(sqlmock.NewResult(0, 0))
	if _, err := repo.Update(context.Background(), 5, Product{Name: "x", Price: 1, Image: "/uploads/x.png"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}

	mock.ExpectExec("DELETE FROM products").WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLRepository_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, dialect, err := database.Open(ctx, "sqlite::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, dialect); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewSQLRepository(db, dialect)

	first, err := repo.Create(ctx, Product{Name: "Ker Sangri", Price: 250, Image: "/uploads/a.jpg"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := repo.Create(ctx, Product{Name: "Teak Charpai", Price: 4500, Image: "/uploads/b.jpg"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}

	if _, err := repo.Update(ctx, first.ID, Product{Name: "Ker Sangri 500g", Price: 450}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Ker Sangri 500g" || got.Image != "/uploads/a.jpg" {
		t.Fatalf("unexpected product after update %+v", got)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
