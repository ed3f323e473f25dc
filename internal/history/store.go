// Package history persists the append-only log of processed documents.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS historial (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL,
	date TEXT NOT NULL,
	summary TEXT NOT NULL
);
`

// Entry is one processed-document row. Rows are never mutated; they are
// removed only by a bulk clear.
type Entry struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Date     string `json:"date"`
	Summary  string `json:"summary"`
}

// Store is a SQLite-backed history log. Writes are serialized so that
// concurrent document completions cannot interleave identifier assignment.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the history database at path and applies the
// schema idempotently. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// One connection: keeps ":memory:" databases shared and writes ordered.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Append records one completed document analysis. The date is stored at
// day granularity.
func (s *Store) Append(ctx context.Context, filename, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := time.Now().Format("2006-01-02")
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO historial (filename, date, summary) VALUES (?, ?, ?)`,
		filename, date, summary,
	); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// List returns all entries, most recent first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, date, summary FROM historial ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Filename, &e.Date, &e.Summary); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM historial`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
