// Package sentlog persists the ids of reports already delivered, so repeated
// watchdog runs never post the same report twice. The log is append-only:
// rows are inserted after successful delivery and never updated or removed.
package sentlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sent_reports (
	id      TEXT PRIMARY KEY,
	sent_at TEXT NOT NULL
);`

// Log is a sqlite-backed id set with Contains and Append.
type Log struct {
	db *sql.DB
}

// Open opens or creates the log database at path.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sent log: %w", err)
	}
	// SQLite single-writer; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Contains reports whether id has already been delivered.
func (l *Log) Contains(ctx context.Context, id string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx, `SELECT 1 FROM sent_reports WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query sent log: %w", err)
	}
	return true, nil
}

// Append records id as delivered. Appending an id that is already present is
// a no-op, matching the at-least-once delivery model.
func (l *Log) Append(ctx context.Context, id string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sent_reports (id, sent_at) VALUES (?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append sent log: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (l *Log) Close() error {
	return l.db.Close()
}
