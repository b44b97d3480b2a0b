// Package history persists benchmark run reports and compares runs to
// surface regressions.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"benchkit/internal/harness"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store is the persistence interface for benchmark runs.
type Store interface {
	Save(report *harness.Report) error
	LoadLatest() (*Run, error)
	LoadAll() ([]Run, error)
	Close() error
}

// Run is one persisted report row.
type Run struct {
	ID        int64          `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Report    harness.Report `json:"report"`
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the history database at
// path and applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		report TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStore) Save(report *harness.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = s.db.Exec(
		"INSERT INTO runs (created_at, report) VALUES (?, ?)",
		time.Now().UTC(), string(data),
	)
	return err
}

func (s *SQLiteStore) LoadAll() ([]Run, error) {
	rows, err := s.db.Query("SELECT id, created_at, report FROM runs ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var raw string
		if err := rows.Scan(&run.ID, &run.CreatedAt, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &run.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run %d: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadLatest returns the newest run, or nil when the history is empty.
func (s *SQLiteStore) LoadLatest() (*Run, error) {
	row := s.db.QueryRow("SELECT id, created_at, report FROM runs ORDER BY id DESC LIMIT 1")

	var run Run
	var raw string
	if err := row.Scan(&run.ID, &run.CreatedAt, &raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &run.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %d: %w", run.ID, err)
	}
	return &run, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
