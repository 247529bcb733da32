package database

import (
	"database/sql"
	"errors"
	"fmt"

	"wpmigrate/internal/pipeline"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// NewSQLiteStore opens a SQLite destination. path can be a file path or
// ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*Store, error) {
	db, err := OpenSQLiteConnection(path)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, d: sqliteDialect{}}, nil
}

// OpenSQLiteConnection opens and configures a SQLite connection with the
// PRAGMAs the destination schema relies on. Exported for tools and tests.
func OpenSQLiteConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection, so the pool must not
	// hand out a second one.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

type sqliteDialect struct{}

func (sqliteDialect) driverName() string { return "sqlite3" }

func (sqliteDialect) placeholder(int) string { return "?" }

func (sqliteDialect) classify(err error) (pipeline.LoadCategory, bool) {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return pipeline.LoadOther, false
	}
	switch se.Code {
	case sqlite3.ErrConstraint:
		return pipeline.LoadConstraint, false
	case sqlite3.ErrMismatch, sqlite3.ErrTooBig, sqlite3.ErrRange:
		return pipeline.LoadMalformed, false
	case sqlite3.ErrError:
		// SQLITE_ERROR covers parse failures and unknown tables/columns.
		return pipeline.LoadSyntax, false
	case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrIoErr:
		return pipeline.LoadOther, true
	default:
		return pipeline.LoadOther, false
	}
}
