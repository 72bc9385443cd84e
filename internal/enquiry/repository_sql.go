package enquiry

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/wichananm65/craft-catalog/internal/database"
)

type SQLRepository struct {
	db      *sql.DB
	dialect database.Dialect
	now     func() time.Time
}

const (
	listEnquiriesQuery = `
		SELECT id, name, email, phone, message, source_page, created_at
		FROM enquiries
		ORDER BY created_at DESC, id DESC
	`
	insertEnquiryQuery = `
		INSERT INTO enquiries (name, email, phone, message, source_page, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
)

// timeLayouts covers the text forms SQLite hands back for DATETIME columns.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

func NewSQLRepository(db *sql.DB, dialect database.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect, now: time.Now}
}

func (r *SQLRepository) List(ctx context.Context) ([]Enquiry, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(listEnquiriesQuery))
	if err != nil {
		return nil, errors.Wrap(err, "list enquiries")
	}
	defer rows.Close()

	out := make([]Enquiry, 0)
	for rows.Next() {
		var (
			e                 Enquiry
			phone, sourcePage sql.NullString
			createdAt         any
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &phone, &e.Message, &sourcePage, &createdAt); err != nil {
			return nil, errors.Wrap(err, "scan enquiry")
		}
		e.Phone = phone.String
		e.SourcePage = sourcePage.String
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, errors.Wrapf(err, "enquiry %d created_at", e.ID)
		}
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "list enquiries")
}

func (r *SQLRepository) Create(ctx context.Context, e Enquiry) (Enquiry, error) {
	e.CreatedAt = r.now().UTC().Truncate(time.Microsecond)
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertEnquiryQuery),
		e.Name, e.Email, nullString(e.Phone), e.Message, nullString(e.SourcePage), e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return Enquiry{}, errors.Wrap(err, "insert enquiry")
	}
	return e, nil
}

func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case nil:
		return time.Time{}, nil
	case []byte:
		return parseTime(string(t))
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, errors.Errorf("unrecognised timestamp %q", t)
	}
	return time.Time{}, errors.Errorf("unexpected timestamp type %T", v)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
