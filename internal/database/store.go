// Package database implements the destination store behind
// pipeline.Destination for SQLite and PostgreSQL backends.
package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"wpmigrate/internal/pipeline"
)

// dialect captures what differs between backends: the driver name for
// migrations, parameter placeholders for the run-record queries, and the
// mapping from driver errors to the load error taxonomy.
type dialect interface {
	driverName() string
	placeholder(n int) string
	// classify maps a driver error to a load category and whether the error
	// means the store itself is unreachable.
	classify(err error) (pipeline.LoadCategory, bool)
}

// Store executes statement units against a relational destination. One Store
// is constructed per run and owns its connection handle until Close.
type Store struct {
	db *sql.DB
	d  dialect
}

var _ pipeline.Destination = (*Store)(nil)

// DB exposes the underlying handle for schema migrations.
func (s *Store) DB() *sql.DB { return s.db }

// DriverName returns the migration driver name for this backend.
func (s *Store) DriverName() string { return s.d.driverName() }

// Ping verifies the destination is reachable.
func (s *Store) Ping() error {
	if err := s.db.Ping(); err != nil {
		return &pipeline.ConnectionError{Err: err}
	}
	return nil
}

// ExecUnit executes all statements of the unit inside one transaction.
// The first statement failure rolls the whole unit back.
func (s *Store) ExecUnit(u *pipeline.Unit) error {
	tx, err := s.db.Begin()
	if err != nil {
		return s.toPipelineError(u, 0, err)
	}

	for i, stmt := range u.Statements {
		if _, err := tx.Exec(string(stmt)); err != nil {
			tx.Rollback()
			return s.toPipelineError(u, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.toPipelineError(u, len(u.Statements), err)
	}
	return nil
}

// toPipelineError translates a driver error into the pipeline taxonomy:
// unreachable store is fatal, everything else fails only this unit.
func (s *Store) toPipelineError(u *pipeline.Unit, stmt int, err error) error {
	if isConnError(err) {
		return &pipeline.ConnectionError{Err: err}
	}
	category, conn := s.d.classify(err)
	if conn {
		return &pipeline.ConnectionError{Err: err}
	}
	return &pipeline.LoadError{Unit: u.Name(), Category: category, Statement: stmt, Err: err}
}

// isConnError covers the driver-agnostic connection failures.
func isConnError(err error) bool {
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone)
}

// CreateRun inserts a run record in the "running" state.
func (s *Store) CreateRun(run *pipeline.Run) error {
	query := fmt.Sprintf(
		"INSERT INTO migration_runs (id, operation, started_at, status, failed_units) VALUES (%s, %s, %s, %s, %s)",
		s.d.placeholder(1), s.d.placeholder(2), s.d.placeholder(3), s.d.placeholder(4), s.d.placeholder(5))
	if _, err := s.db.Exec(query, run.ID, run.Operation, run.StartedAt, run.Status, run.FailedUnits); err != nil {
		return fmt.Errorf("creating run record: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run.
func (s *Store) FinishRun(id, status, failedUnits string) error {
	query := fmt.Sprintf(
		"UPDATE migration_runs SET finished_at = %s, status = %s, failed_units = %s WHERE id = %s",
		s.d.placeholder(1), s.d.placeholder(2), s.d.placeholder(3), s.d.placeholder(4))
	if _, err := s.db.Exec(query, time.Now().UTC(), status, failedUnits, id); err != nil {
		return fmt.Errorf("finishing run record: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]*pipeline.Run, error) {
	query := fmt.Sprintf(
		"SELECT id, operation, started_at, finished_at, status, failed_units FROM migration_runs ORDER BY started_at DESC LIMIT %s",
		s.d.placeholder(1))
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*pipeline.Run
	for rows.Next() {
		var (
			run      pipeline.Run
			finished sql.NullTime
		)
		if err := rows.Scan(&run.ID, &run.Operation, &run.StartedAt, &finished, &run.Status, &run.FailedUnits); err != nil {
			return nil, fmt.Errorf("scanning run record: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run records: %w", err)
	}
	return runs, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
