package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/llxisdsh/mapstress"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	run_id      TEXT    NOT NULL,
	test        TEXT    NOT NULL,
	tbl         TEXT    NOT NULL,
	iteration   INTEGER NOT NULL,
	p           INTEGER NOT NULL,
	n           INTEGER NOT NULL,
	cap         INTEGER NOT NULL,
	errors      INTEGER NOT NULL,
	unsucc      INTEGER NOT NULL,
	found       INTEGER NOT NULL,
	ooo         INTEGER NOT NULL,
	bound       INTEGER NOT NULL,
	keys        TEXT    NOT NULL DEFAULT '',
	passed      INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	PRIMARY KEY (run_id, iteration)
);
CREATE TABLE IF NOT EXISTS params (
	run_id    TEXT    NOT NULL,
	iteration INTEGER NOT NULL,
	name      TEXT    NOT NULL,
	value     REAL    NOT NULL
);
CREATE TABLE IF NOT EXISTS phases (
	run_id     TEXT    NOT NULL,
	iteration  INTEGER NOT NULL,
	name       TEXT    NOT NULL,
	elapsed_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_test ON results(test, tbl);
`

// SQLite stores results in a SQLite database, one transaction per result.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("report: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("report: create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Write(r mapstress.Result) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("report: begin: %w", err)
	}
	defer tx.Rollback()

	c := r.Counts
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO results (run_id, test, tbl, iteration, p, n, cap,
			errors, unsucc, found, ooo, bound, keys, passed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Test, r.Table, r.Iteration, r.Workers, r.Elements, r.Capacity,
		c.Errors, c.UnsuccessfulDeletes, c.Found, c.OutOfOrder, r.Bound,
		r.Fingerprint, r.Passed, time.Now().UnixNano(),
	); err != nil {
		return fmt.Errorf("report: insert result: %w", err)
	}
	for _, p := range r.Params {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO params (run_id, iteration, name, value) VALUES (?, ?, ?, ?)`,
			r.RunID, r.Iteration, p.Name, p.Value); err != nil {
			return fmt.Errorf("report: insert param: %w", err)
		}
	}
	for _, p := range r.Phases {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO phases (run_id, iteration, name, elapsed_ns) VALUES (?, ?, ?, ?)`,
			r.RunID, r.Iteration, p.Name, int64(p.Elapsed)); err != nil {
			return fmt.Errorf("report: insert phase: %w", err)
		}
	}
	return tx.Commit()
}

// Summary is the aggregate of one run as stored.
type Summary struct {
	Test       string
	Table      string
	Iterations int
	Failed     int
	Phases     map[string]time.Duration // mean per phase
}

// Summarize aggregates the stored iterations of runID.
func (s *SQLite) Summarize(ctx context.Context, runID string) (*Summary, error) {
	sum := &Summary{Phases: make(map[string]time.Duration)}
	err := s.db.QueryRowContext(ctx, `
		SELECT test, tbl, COUNT(*), COALESCE(SUM(1 - passed), 0)
		FROM results WHERE run_id = ? GROUP BY test, tbl`, runID,
	).Scan(&sum.Test, &sum.Table, &sum.Iterations, &sum.Failed)
	if err != nil {
		return nil, fmt.Errorf("report: summarize %s: %w", runID, err)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, CAST(AVG(elapsed_ns) AS INTEGER)
		FROM phases WHERE run_id = ? GROUP BY name`, runID)
	if err != nil {
		return nil, fmt.Errorf("report: summarize phases: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			name string
			ns   int64
		)
		if err := rows.Scan(&name, &ns); err != nil {
			return nil, err
		}
		sum.Phases[name] = time.Duration(ns)
	}
	return sum, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
