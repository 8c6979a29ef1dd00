package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS outlines (
	key        TEXT PRIMARY KEY,
	result     TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// SQLite caches results in a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer avoids SQLITE_BUSY between batch workers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (outline.Result, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT result FROM outlines WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return outline.Result{}, false, nil
	}
	if err != nil {
		return outline.Result{}, false, fmt.Errorf("query cache: %w", err)
	}

	var res outline.Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return outline.Result{}, false, fmt.Errorf("decode cached result: %w", err)
	}
	return res, true, nil
}

func (s *SQLite) Put(ctx context.Context, key string, res outline.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO outlines (key, result, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET result = excluded.result, created_at = excluded.created_at`,
		key, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	return nil
}

func (s *SQLite) Purge(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM outlines`)
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	return int(n), nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
