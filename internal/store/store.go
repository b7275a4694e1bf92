// Package store persists sync-run history in a local sqlite database.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/servizzmalta/directory-cli/internal/model"
)

// Store records sync runs using modernc.org/sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the run-history database at path and
// configures WAL mode.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "store: create dir %s", dir)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS sync_runs (
	id          TEXT PRIMARY KEY,
	mode        TEXT NOT NULL,
	strict      INTEGER NOT NULL DEFAULT 0,
	selected    INTEGER NOT NULL,
	fallback    INTEGER NOT NULL,
	reused      INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_created_at ON sync_runs(created_at);
`

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts one completed sync run and returns it with its assigned
// id and timestamp.
func (s *Store) RecordRun(ctx context.Context, run model.SyncRun) (*model.SyncRun, error) {
	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, mode, strict, selected, fallback, reused, total, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Mode), boolToInt(run.Strict),
		run.Selected, run.Fallback, run.Reused, run.Total,
		run.Duration, run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: insert run")
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, strict, selected, fallback, reused, total, duration_ms, created_at
		 FROM sync_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var runs []model.SyncRun
	for rows.Next() {
		var run model.SyncRun
		var strict int
		if err := rows.Scan(
			&run.ID, &run.Mode, &strict,
			&run.Selected, &run.Fallback, &run.Reused, &run.Total,
			&run.Duration, &run.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		run.Strict = strict != 0
		runs = append(runs, run)
	}
	return runs, eris.Wrap(rows.Err(), "store: iterate runs")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
