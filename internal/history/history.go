package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dshills/ccw/internal/review"
)

// ErrNotFound is returned when no run has the requested ID.
var ErrNotFound = errors.New("run not found")

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store records finished runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns $XDG_DATA_HOME/ccw/history.db or its fallback under
// the home directory.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "ccw", "history.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "ccw", "history.db"), nil
}

// Open opens or creates the database at path and applies migrations. An
// empty path uses DefaultPath.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history %q: %w", path, err)
	}
	// Writers are serialized by SQLite anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening history %q: %w", path, err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished run.
func (s *Store) Record(ctx context.Context, res review.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, mode, source, model, status, context_window,
			attempts, cached, redactions, elapsed_ms, error, text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.StartedAt.UTC().Format(timeLayout), res.Mode, res.Source, res.Model,
		string(res.Status), res.ContextWindow, res.Attempts, res.Cached, res.Redactions,
		res.Elapsed.Milliseconds(), res.Error, res.Text,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", res.ID, err)
	}
	return nil
}

const selectRuns = `SELECT id, started_at, mode, source, model, status, context_window,
	attempts, cached, redactions, elapsed_ms, error, text FROM runs`

// Recent returns up to limit runs, newest first. A mode filter of "" matches
// every mode.
func (s *Store) Recent(ctx context.Context, mode string, limit int) ([]review.Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		selectRuns+` WHERE (? = '' OR mode = ?) ORDER BY started_at DESC, id LIMIT ?`,
		mode, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []review.Result
	for rows.Next() {
		res, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Get returns the run with the given ID.
func (s *Store) Get(ctx context.Context, id string) (review.Result, error) {
	res, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return review.Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return res, err
}

// Prune deletes runs started before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	r, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return r.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (review.Result, error) {
	var (
		res       review.Result
		startedAt string
		status    string
		elapsedMs int64
	)
	err := row.Scan(&res.ID, &startedAt, &res.Mode, &res.Source, &res.Model, &status,
		&res.ContextWindow, &res.Attempts, &res.Cached, &res.Redactions, &elapsedMs, &res.Error, &res.Text)
	if err != nil {
		return review.Result{}, err
	}
	res.Status = review.Status(status)
	res.StartedAt, err = time.Parse(timeLayout, startedAt)
	if err != nil {
		return review.Result{}, fmt.Errorf("run %s: bad start time %q: %w", res.ID, startedAt, err)
	}
	res.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	res.ElapsedMs = elapsedMs
	return res, nil
}
