package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_store (key TEXT PRIMARY KEY, value TEXT NOT NULL)`

// SQL stores values in a kv_store table of a SQLite or Postgres database.
type SQL struct {
	db     *sql.DB
	getSQL string
	setSQL string
}

// OpenSQLite opens a SQLite database file.
func OpenSQLite(path string) (*SQL, error) {
	if path == "" {
		return nil, errors.New("sqlite: empty path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	return NewSQL(db, "?")
}

// OpenPostgres connects to Postgres with a lib/pq DSN.
func OpenPostgres(dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, errors.New("postgres: empty dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	return NewSQL(db, "$")
}

// NewSQL wraps db and creates the table if needed. placeholder is "?" for
// SQLite and "$" for Postgres-style numbered parameters.
func NewSQL(db *sql.DB, placeholder string) (*SQL, error) {
	p1, p2 := "?", "?"
	if placeholder == "$" {
		p1, p2 = "$1", "$2"
	}
	if _, err := db.Exec(createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv_store table: %w", err)
	}
	return &SQL{
		db:     db,
		getSQL: "SELECT value FROM kv_store WHERE key = " + p1,
		setSQL: "INSERT INTO kv_store (key, value) VALUES (" + p1 + ", " + p2 + ") " +
			"ON CONFLICT (key) DO UPDATE SET value = excluded.value",
	}, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.getSQL, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sql get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.setSQL, key, value); err != nil {
		return fmt.Errorf("sql set %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error { return s.db.Close() }
