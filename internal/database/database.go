// Package database opens the product store and keeps its schema current.
package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Dialect is the SQL flavour behind a *sql.DB.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

var ErrUnsupportedURL = errors.New("unsupported DATABASE_URL scheme")

// Rebind rewrites $n placeholders for dialects that only understand ?.
// Queries must use each placeholder once, in order.
func (d Dialect) Rebind(query string) string {
	if d != SQLite {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			b.WriteByte('?')
			for i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
				i++
			}
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Open connects to rawURL. postgres:// and postgresql:// URLs use the pgx
// driver; sqlite:<path> (or sqlite::memory:) uses the pure-Go sqlite driver.
func Open(ctx context.Context, rawURL string) (*sql.DB, Dialect, error) {
	driver, dsn, dialect, err := parseURL(rawURL)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", errors.Wrap(err, "open database")
	}
	if dialect == SQLite {
		// one writer at a time; also keeps :memory: databases on a single connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, "", errors.Wrap(err, "ping database")
	}
	return db, dialect, nil
}

func parseURL(rawURL string) (driver, dsn string, dialect Dialect, err error) {
	switch {
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		return "pgx", rawURL, Postgres, nil
	case strings.HasPrefix(rawURL, "sqlite:"):
		path := strings.TrimPrefix(rawURL, "sqlite:")
		if path == "" {
			path = ":memory:"
		}
		return "sqlite", path, SQLite, nil
	default:
		return "", "", "", errors.Wrapf(ErrUnsupportedURL, "%q", redact(rawURL))
	}
}

func redact(rawURL string) string {
	if i := strings.Index(rawURL, "://"); i >= 0 {
		return rawURL[:i+3] + "…"
	}
	if len(rawURL) > 12 {
		return rawURL[:12] + "…"
	}
	return rawURL
}
