package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded maintenance pass.
type Run struct {
	ID               string
	Root             string
	Plugins          []string
	StartedAt        time.Time
	FinishedAt       *time.Time
	Nodes            int
	Directories      int
	EmptyDirectories int
	HandlerFailures  int
}

// Counters carries the walk totals persisted when a run finishes.
type Counters struct {
	Nodes            int
	Directories      int
	EmptyDirectories int
	HandlerFailures  int
}

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applySchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    root TEXT NOT NULL,
    plugins TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    nodes INTEGER NOT NULL DEFAULT 0,
    directories INTEGER NOT NULL DEFAULT 0,
    empty_directories INTEGER NOT NULL DEFAULT 0,
    handler_failures INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply history schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// StartRun records the beginning of a maintenance pass.
func (s *Store) StartRun(ctx context.Context, id, root string, plugins []string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, root, plugins, started_at) VALUES (?, ?, ?, ?)`,
		id, root, strings.Join(plugins, ","), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run start: %w", err)
	}
	return nil
}

// FinishRun stamps a run finished and stores its walk counters.
func (s *Store) FinishRun(ctx context.Context, id string, counters Counters) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, nodes = ?, directories = ?, empty_directories = ?, handler_failures = ?
         WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		counters.Nodes, counters.Directories, counters.EmptyDirectories, counters.HandlerFailures,
		id,
	)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("record run finish: unknown run %q", id)
	}
	return nil
}

// RecentRuns returns up to limit runs, most recently started first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, plugins, started_at, finished_at, nodes, directories, empty_directories, handler_failures
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			plugins    string
			startedAt  string
			finishedAt sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Root, &plugins, &startedAt, &finishedAt,
			&run.Nodes, &run.Directories, &run.EmptyDirectories, &run.HandlerFailures); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if plugins != "" {
			run.Plugins = strings.Split(plugins, ",")
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finishedAt.Valid {
			parsed, err := time.Parse(time.RFC3339Nano, finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
			run.FinishedAt = &parsed
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
