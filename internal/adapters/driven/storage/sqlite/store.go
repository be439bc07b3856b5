package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/certprobe/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/certprobe/internal/core/domain"
	"github.com/custodia-labs/certprobe/internal/core/ports/driven"
	"github.com/custodia-labs/certprobe/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.RunStore = (*Store)(nil)

// DatabaseFile is the file name of the run history database.
const DatabaseFile = "runs.db"

// Store is the SQLite-based run history store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.certprobe/data/runs.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".certprobe", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Debug("Opened run history at %s", dbPath)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_runs.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
		logger.Debug("Applied migration %s", name)
	}

	return nil
}

// Save stores a run with its records, replacing any run with the same ID.
func (s *Store) Save(ctx context.Context, report *domain.RunReport) error {
	if report == nil || report.ID == "" {
		return fmt.Errorf("%w: run must have an ID", domain.ErrInvalidInput)
	}

	paths := report.ReportPaths
	if paths == nil {
		paths = []string{}
	}
	pathsJSON, err := json.Marshal(paths)
	if err != nil {
		return fmt.Errorf("marshalling report paths: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Replacing the run cascades to its records.
	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", report.ID); err != nil {
		return fmt.Errorf("replacing run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, run_group, status, started_at, finished_at, total, found, missing, report_paths)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.Group.String(), report.Status.String(),
		toUnix(report.StartedAt), toUnix(report.FinishedAt),
		report.Summary.Total, report.Summary.Found, report.Summary.Missing,
		string(pathsJSON))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	recStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_records (run_id, position, identity, kind, address, diagnostic,
			status_code, content_type, attempts, failure)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer recStmt.Close()

	for _, rec := range report.Records {
		o := rec.Outcome
		if _, err := recStmt.ExecContext(ctx, report.ID, rec.Position, string(rec.Identity),
			o.Kind.String(), o.Address.String(), o.Diagnostic,
			o.StatusCode, o.ContentType, o.Attempts, o.Failure.String()); err != nil {
			return fmt.Errorf("saving record %d: %w", rec.Position, err)
		}
	}

	for _, sk := range report.Skipped {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO run_skipped (run_id, position, raw) VALUES (?, ?, ?)",
			report.ID, sk.Position, sk.Raw); err != nil {
			return fmt.Errorf("saving skipped entry %d: %w", sk.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Get retrieves a run with its records by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.RunReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, run_group, status, started_at, finished_at, total, found, missing, report_paths
		FROM runs WHERE id = ?
	`, id)

	var (
		report    domain.RunReport
		info      domain.RunInfo
		pathsJSON string
	)
	if err := scanRun(row, &info, &pathsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	report.ID = info.ID
	report.Group = info.Group
	report.Status = info.Status
	report.StartedAt = info.StartedAt
	report.FinishedAt = info.FinishedAt
	report.Summary = info.Summary

	if err := json.Unmarshal([]byte(pathsJSON), &report.ReportPaths); err != nil {
		return nil, fmt.Errorf("unmarshalling report paths: %w", err)
	}

	records, err := s.records(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Records = records

	skipped, err := s.skipped(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Skipped = skipped

	return &report, nil
}

// List returns runs most recent first, optionally filtered by group.
// A limit of zero or less returns every run.
func (s *Store) List(ctx context.Context, group domain.ResourceGroup, limit int) ([]domain.RunInfo, error) {
	query := `
		SELECT r.id, r.run_group, r.status, r.started_at, r.finished_at, r.total, r.found, r.missing,
			r.report_paths, (SELECT COUNT(*) FROM run_skipped k WHERE k.run_id = r.id)
		FROM runs r`
	var args []any
	if group != "" {
		query += " WHERE r.run_group = ?"
		args = append(args, group.String())
	}
	query += " ORDER BY r.started_at DESC, r.id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunInfo
	for rows.Next() {
		var (
			info      domain.RunInfo
			pathsJSON string
		)
		if err := scanRun(rows, &info, &pathsJSON, &info.Skipped); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Delete removes a run and its records.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) records(ctx context.Context, runID string) ([]domain.OutcomeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, identity, kind, address, diagnostic, status_code, content_type, attempts, failure
		FROM run_records WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.OutcomeRecord
	for rows.Next() {
		var (
			rec                              domain.OutcomeRecord
			identity, kind, address, failure string
		)
		if err := rows.Scan(&rec.Position, &identity, &kind, &address, &rec.Outcome.Diagnostic,
			&rec.Outcome.StatusCode, &rec.Outcome.ContentType, &rec.Outcome.Attempts, &failure); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.Identity = domain.Identity(identity)
		rec.Outcome.Kind = domain.OutcomeKind(kind)
		rec.Outcome.Address = domain.ResourceAddress(address)
		rec.Outcome.Failure = domain.FailureClass(failure)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

func (s *Store) skipped(ctx context.Context, runID string) ([]domain.SkippedEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT position, raw FROM run_skipped WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("querying skipped entries: %w", err)
	}
	defer rows.Close()

	var skipped []domain.SkippedEntry
	for rows.Next() {
		var sk domain.SkippedEntry
		if err := rows.Scan(&sk.Position, &sk.Raw); err != nil {
			return nil, fmt.Errorf("scanning skipped entry: %w", err)
		}
		skipped = append(skipped, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating skipped entries: %w", err)
	}
	return skipped, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun reads the runs columns into info; extra receives trailing columns.
func scanRun(row scanner, info *domain.RunInfo, pathsJSON *string, extra ...any) error {
	var (
		group, status     string
		started, finished int64
	)
	dest := []any{&info.ID, &group, &status, &started, &finished,
		&info.Summary.Total, &info.Summary.Found, &info.Summary.Missing, pathsJSON}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	info.Group = domain.ResourceGroup(group)
	info.Status = domain.RunStatus(status)
	info.StartedAt = fromUnix(started)
	info.FinishedAt = fromUnix(finished)
	return nil
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
