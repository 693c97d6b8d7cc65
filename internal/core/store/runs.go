package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xtractor/xtractor/internal/core"
	"github.com/xtractor/xtractor/internal/metadata"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("scan run not found")

// DefaultListLimit bounds ListRuns when no limit is given.
const DefaultListLimit = 20

// RunRecord is one recorded invocation.
type RunRecord struct {
	ID         string
	Root       string
	Directory  bool
	StartedAt  time.Time
	FinishedAt time.Time
	Files      int
	Failed     int
	Aborted    bool
}

// FileRecord is one document of a recorded run.
type FileRecord struct {
	Path           string
	Status         core.Status
	Reason         string
	Core           *metadata.Mapping
	App            *metadata.Mapping
	MediaCount     int
	ExtractedCount int
	OutputDir      string
}

// RecordRun writes report and its per-document results in one transaction.
func (s *Store) RecordRun(ctx context.Context, report *core.BatchReport) error {
	if s == nil || s.DB == nil {
		return ErrNotInitialized
	}
	if report == nil || strings.TrimSpace(report.ID) == "" {
		return errors.New("run id is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record run: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scan_runs (id, root, directory, started_at, finished_at, files, failed, aborted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.Root, boolToInt(report.Directory),
		report.StartedAt.UTC().UnixMilli(), report.FinishedAt.UTC().UnixMilli(),
		len(report.Files), report.Count(core.StatusFailed), boolToInt(report.Aborted))
	if err != nil {
		return fmt.Errorf("store run: %w", err)
	}

	for i, f := range report.Files {
		if f == nil {
			continue
		}
		coreJSON, err := encodeMapping(f.Part(metadata.CorePart))
		if err != nil {
			return err
		}
		appJSON, err := encodeMapping(f.Part(metadata.AppPart))
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO scan_files (run_id, seq, path, status, reason, core_json, app_json, media_count, extracted_count, output_dir)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, report.ID, i, f.Path, string(f.Status), nullString(f.Reason), coreJSON, appJSON,
			len(f.Media), len(f.Extracted), nullString(f.OutputDir))
		if err != nil {
			return fmt.Errorf("store file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if s == nil || s.DB == nil {
		return nil, ErrNotInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, root, directory, started_at, finished_at, files, failed, aborted
		FROM scan_runs
		ORDER BY started_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a run and its documents in processing order.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, []FileRecord, error) {
	if s == nil || s.DB == nil {
		return nil, nil, ErrNotInitialized
	}
	if ctx == nil {
		ctx = context.Background()
	}

	row := s.DB.QueryRowContext(ctx, `
		SELECT id, root, directory, started_at, finished_at, files, failed, aborted
		FROM scan_runs WHERE id = ?
	`, strings.TrimSpace(id))
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT path, status, reason, core_json, app_json, media_count, extracted_count, output_dir
		FROM scan_files WHERE run_id = ?
		ORDER BY seq
	`, run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load run files: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var files []FileRecord
	for rows.Next() {
		var (
			rec       FileRecord
			status    string
			reason    sql.NullString
			coreJSON  sql.NullString
			appJSON   sql.NullString
			outputDir sql.NullString
		)
		if err := rows.Scan(&rec.Path, &status, &reason, &coreJSON, &appJSON,
			&rec.MediaCount, &rec.ExtractedCount, &outputDir); err != nil {
			return nil, nil, fmt.Errorf("scan run file: %w", err)
		}
		rec.Status = core.Status(status)
		rec.Reason = reason.String
		rec.OutputDir = outputDir.String
		if rec.Core, err = decodeMapping(coreJSON); err != nil {
			return nil, nil, err
		}
		if rec.App, err = decodeMapping(appJSON); err != nil {
			return nil, nil, err
		}
		files = append(files, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load run files: %w", err)
	}
	return run, files, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		run        RunRecord
		directory  int
		startedAt  int64
		finishedAt int64
		aborted    int
	)
	if err := row.Scan(&run.ID, &run.Root, &directory, &startedAt, &finishedAt,
		&run.Files, &run.Failed, &aborted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Directory = directory != 0
	run.Aborted = aborted != 0
	run.StartedAt = time.UnixMilli(startedAt).UTC()
	run.FinishedAt = time.UnixMilli(finishedAt).UTC()
	return &run, nil
}

func encodeMapping(m *metadata.Mapping) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode metadata: %w", err)
	}
	return sql.NullString{String: string(payload), Valid: true}, nil
}

func decodeMapping(raw sql.NullString) (*metadata.Mapping, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	m := metadata.NewMapping()
	if err := json.Unmarshal([]byte(raw.String), m); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
