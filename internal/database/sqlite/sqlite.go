// Package sqlite adapts a SQLite posting store file (the format the
// bulk-load collaborator writes) to the database.DB interface. Uses the
// pure-Go modernc.org driver, so no cgo toolchain is needed.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"career-compass/internal/database"

	_ "modernc.org/sqlite"
)

type Conn struct {
	db *sql.DB
}

func Open(ctx context.Context, path string) (database.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Conn{db: db}, nil
}

func (c *Conn) Ping(ctx context.Context) error {
	if c == nil || c.db == nil {
		return fmt.Errorf("nil db")
	}
	return c.db.PingContext(ctx)
}

func (c *Conn) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if c == nil || c.db == nil {
		return 0, fmt.Errorf("nil db")
	}
	res, err := c.db.ExecContext(ctx, rebind(query), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (c *Conn) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("nil db")
	}
	r, err := c.db.QueryContext(ctx, rebind(query), args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: r}, nil
}

func (c *Conn) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	if c == nil || c.db == nil {
		return nilRow{}
	}
	return c.db.QueryRowContext(ctx, rebind(query), args...)
}

func (c *Conn) SQLDB() *sql.DB {
	if c == nil {
		return nil
	}
	return c.db
}

// rebind rewrites $N placeholders (the form the repositories write for
// Postgres) to SQLite's equivalent ?N numbered parameters. Repeated $N
// keeps referring to the same argument.
func rebind(query string) string {
	if !strings.ContainsRune(query, '$') {
		return query
	}

	b := strings.Builder{}
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			b.WriteByte('?')
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

type sqlRows struct {
	rows *sql.Rows
}

func (r sqlRows) Close() {
	_ = r.rows.Close()
}

func (r sqlRows) Next() bool {
	return r.rows.Next()
}

func (r sqlRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r sqlRows) Err() error {
	return r.rows.Err()
}

type nilRow struct{}

func (nilRow) Scan(_ ...any) error {
	return fmt.Errorf("nil db")
}
