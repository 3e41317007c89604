package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	duration_ms INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	errored     INTEGER NOT NULL,
	skipped     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cases (
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	full_name   TEXT NOT NULL,
	status      TEXT NOT NULL,
	skipped     INTEGER NOT NULL,
	phase       TEXT NOT NULL,
	message     TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	suites      TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);
CREATE INDEX IF NOT EXISTS cases_full_name ON cases(full_name);
`

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("not found")

// Run is a stored run summary.
type Run struct {
	ID        string
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Passed    int
	Failed    int
	Errored   int
	Skipped   int
}

func (r Run) Total() int {
	return r.Passed + r.Failed + r.Errored + r.Skipped
}

// Case is a stored case result.
type Case struct {
	RunID    string
	FullName string
	Status   checkers.Status
	Skipped  bool
	Phase    checkers.Phase
	Message  string
	Duration time.Duration
	Suites   []string
}

// Store persists run history in SQLite.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens or creates the database at path. A "sqlite://" or "sqlite:"
// prefix is accepted.
func Open(path string) (*Store, error) {
	dsn := parsePath(path)
	if dsn == "" {
		return nil, fmt.Errorf("history database path is empty")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db, queryTimeout: 30 * time.Second}, nil
}

func parsePath(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "sqlite://") {
		return strings.TrimPrefix(path, "sqlite://")
	}
	return strings.TrimPrefix(path, "sqlite:")
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores a run result and its cases in one transaction.
func (s *Store) Record(result *runner.RunResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, name, started_at, duration_ms, passed, failed, errored, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.Name, result.StartedAt.UTC(), result.Duration.Milliseconds(),
		result.Passed, result.Failed, result.Errored, result.Skipped)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", result.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cases (run_id, position, full_name, status, skipped, phase, message, duration_ms, suites)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare case insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range result.Cases {
		message := c.Message
		if message == "" && c.Err != nil {
			message = c.Err.Error()
		}
		_, err := stmt.ExecContext(ctx, result.ID, i, c.FullName, string(c.Status), c.Skipped,
			string(c.Phase), message, c.Duration.Milliseconds(), strings.Join(c.Suites, ","))
		if err != nil {
			return fmt.Errorf("insert case %s: %w", c.FullName, err)
		}
	}

	return tx.Commit()
}

// Runs returns the most recent runs first. A limit of zero or less returns
// every run.
func (s *Store) Runs(limit int) ([]Run, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	query := `SELECT id, name, started_at, duration_ms, passed, failed, errored, skipped
		FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var r Run
		var ms int64
		if err := rows.Scan(&r.ID, &r.Name, &r.StartedAt, &ms, &r.Passed, &r.Failed, &r.Errored, &r.Skipped); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// Cases returns the cases of a run in execution order.
func (s *Store) Cases(runID string) ([]Case, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, full_name, status, skipped, phase, message, duration_ms, suites
		 FROM cases WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cases := make([]Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	if len(cases) == 0 {
		if _, err := s.run(ctx, runID); err != nil {
			return nil, err
		}
	}
	return cases, nil
}

// LastStatus returns the most recent recorded result of a case.
func (s *Store) LastStatus(fullName string) (Case, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT c.run_id, c.full_name, c.status, c.skipped, c.phase, c.message, c.duration_ms, c.suites
		 FROM cases c JOIN runs r ON r.id = c.run_id
		 WHERE c.full_name = ? AND c.skipped = 0
		 ORDER BY r.started_at DESC, r.rowid DESC LIMIT 1`, fullName)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Case{}, fmt.Errorf("case %s: %w", fullName, ErrNotFound)
	}
	return c, err
}

func (s *Store) run(ctx context.Context, id string) (Run, error) {
	var r Run
	var ms int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, started_at, duration_ms, passed, failed, errored, skipped FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Name, &r.StartedAt, &ms, &r.Passed, &r.Failed, &r.Errored, &r.Skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("query failed: %w", err)
	}
	r.Duration = time.Duration(ms) * time.Millisecond
	return r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCase(row scanner) (Case, error) {
	var c Case
	var status, phase, suites string
	var ms int64
	if err := row.Scan(&c.RunID, &c.FullName, &status, &c.Skipped, &phase, &c.Message, &ms, &suites); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Case{}, err
		}
		return Case{}, fmt.Errorf("failed to scan row: %w", err)
	}
	c.Status = checkers.Status(status)
	c.Phase = checkers.Phase(phase)
	c.Duration = time.Duration(ms) * time.Millisecond
	if suites != "" {
		c.Suites = strings.Split(suites, ",")
	}
	return c, nil
}
