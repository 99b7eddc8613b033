// Package history records conversion batches in a SQLite database so past
// runs and their per-file outcomes can be listed later.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/qbc/internal/models"
)

// ErrRunNotFound is returned when a run ID is not in the database.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded batch.
type Run struct {
	ID         int64
	RunID      string
	Direction  string
	OutputRoot string
	Total      int
	Converted  int
	Skipped    int
	Failed     int
	Duration   time.Duration
	StartedAt  time.Time
}

// FileRecord is one file outcome within a recorded batch.
type FileRecord struct {
	RunID      string
	Index      int
	SourcePath string
	OutputPath string
	Status     models.Status
	Reason     string
	Duration   time.Duration
}

// Store manages the SQLite run history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath.
// ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores a batch and all of its file results in one transaction.
// The run's start time is derived from now minus the batch duration.
func (s *Store) RecordRun(ctx context.Context, result *models.BatchResult) error {
	if result == nil {
		return fmt.Errorf("record run: nil result")
	}
	if result.RunID == "" {
		return fmt.Errorf("record run: empty run ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	startedAt := time.Now().UTC().Add(-result.Duration)
	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(run_id, direction, output_root, total, converted, skipped, failed, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.Direction.String(),
		result.OutputRoot,
		result.Total,
		result.Converted,
		result.Skipped,
		result.Failed,
		result.Duration.Milliseconds(),
		startedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_files
		(run_id, file_index, source_path, output_path, status, reason, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range result.Results {
		status := r.Status
		if r.IsFailed() {
			status = models.StatusFailed
		}
		if _, err := stmt.ExecContext(ctx,
			result.RunID,
			r.Task.Index,
			r.Task.SourcePath,
			r.Task.OutputPath,
			string(status),
			r.Reason(),
			r.Duration.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert file %s: %w", r.Task.SourcePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, run_id, direction, output_root, total, converted, skipped, failed, duration_ms, started_at`

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// GetRun returns a single run by its run ID, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// GetRunFiles returns a run's file outcomes in resolver order.
func (s *Store) GetRunFiles(ctx context.Context, runID string) ([]*FileRecord, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT run_id, file_index, source_path, output_path, status, reason, duration_ms
		FROM run_files
		WHERE run_id = ?
		ORDER BY file_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var files []*FileRecord
	for rows.Next() {
		f := &FileRecord{}
		var outputPath, reason sql.NullString
		var status string
		var durationMs sql.NullInt64
		if err := rows.Scan(&f.RunID, &f.Index, &f.SourcePath, &outputPath, &status, &reason, &durationMs); err != nil {
			return nil, fmt.Errorf("scan run file row: %w", err)
		}
		f.OutputPath = outputPath.String
		f.Status = models.Status(status)
		f.Reason = reason.String
		f.Duration = time.Duration(durationMs.Int64) * time.Millisecond
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run file rows: %w", err)
	}
	return files, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var durationMs int64
	err := row.Scan(
		&run.ID,
		&run.RunID,
		&run.Direction,
		&run.OutputRoot,
		&run.Total,
		&run.Converted,
		&run.Skipped,
		&run.Failed,
		&durationMs,
		&run.StartedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan run row: %w", err)
	}
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return run, nil
}
