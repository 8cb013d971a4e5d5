package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLStorage keeps the token in a key/value table. Postgres (pgx) and MySQL
// are supported.
type SQLStorage struct {
	db      *sql.DB
	queries sqlQueries
}

type sqlQueries struct {
	create string
	load   string
	save   string
	remove string
}

func dialectQueries(driver, table string) (sqlQueries, error) {
	switch driver {
	case "pgx", "postgres":
		return sqlQueries{
			create: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (name VARCHAR(64) PRIMARY KEY, token TEXT NOT NULL)`, table),
			load:   fmt.Sprintf(`SELECT token FROM %s WHERE name = $1`, table),
			save:   fmt.Sprintf(`INSERT INTO %s (name, token) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET token = EXCLUDED.token`, table),
			remove: fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, table),
		}, nil
	case "mysql":
		return sqlQueries{
			create: fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (name VARCHAR(64) PRIMARY KEY, token TEXT NOT NULL)", table),
			load:   fmt.Sprintf("SELECT token FROM %s WHERE name = ?", table),
			save:   fmt.Sprintf("INSERT INTO %s (name, token) VALUES (?, ?) ON DUPLICATE KEY UPDATE token = VALUES(token)", table),
			remove: fmt.Sprintf("DELETE FROM %s WHERE name = ?", table),
		}, nil
	default:
		return sqlQueries{}, fmt.Errorf("session: unsupported sql driver %q", driver)
	}
}

// NewSQLStorage prepares the table for driver ("pgx" or "mysql").
func NewSQLStorage(ctx context.Context, db *sql.DB, driver, table string) (*SQLStorage, error) {
	if table == "" {
		table = "session_tokens"
	}
	q, err := dialectQueries(driver, table)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, q.create); err != nil {
		return nil, fmt.Errorf("session: create table: %w", err)
	}
	return &SQLStorage{db: db, queries: q}, nil
}

func (s *SQLStorage) Load(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, s.queries.load, Key).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return token, err
}

func (s *SQLStorage) Save(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, s.queries.save, Key, token)
	return err
}

func (s *SQLStorage) Remove(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.queries.remove, Key)
	return err
}
