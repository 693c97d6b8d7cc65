package store

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS scan_runs (
		id TEXT PRIMARY KEY,
		root TEXT NOT NULL,
		directory INTEGER NOT NULL DEFAULT 0,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		files INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		aborted INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_scan_runs_started ON scan_runs(started_at);`,
	`CREATE TABLE IF NOT EXISTS scan_files (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		path TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		core_json TEXT,
		app_json TEXT,
		media_count INTEGER NOT NULL DEFAULT 0,
		extracted_count INTEGER NOT NULL DEFAULT 0,
		output_dir TEXT,
		PRIMARY KEY(run_id, seq),
		FOREIGN KEY(run_id) REFERENCES scan_runs(id) ON DELETE CASCADE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_scan_files_path ON scan_files(path);`,
}

// Migrate ensures the history tables exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return ErrNotInitialized
	}

	if ctx == nil {
		ctx = context.Background()
	}

	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store migration failed: %w", err)
		}
	}

	return nil
}
