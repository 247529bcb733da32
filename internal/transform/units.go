package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wpmigrate/internal/pipeline"
)

// WriteUnit persists a unit as <entity>.sql in dir: semicolon-terminated
// statements in emission order. The unit lands via a temp file and rename,
// so a crash never leaves a partial artifact behind.
func WriteUnit(dir string, u *pipeline.Unit) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating unit directory: %w", err)
	}

	var b strings.Builder
	for _, stmt := range u.Statements {
		b.WriteString(string(stmt))
		b.WriteString(";\n")
	}

	tmp, err := os.CreateTemp(dir, "."+u.Name()+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp unit file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing unit %s: %w", u.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing unit %s: %w", u.Name(), err)
	}

	final := filepath.Join(dir, u.Name())
	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalizing unit %s: %w", u.Name(), err)
	}
	return nil
}

// WriteUnits persists every unit to dir.
func WriteUnits(dir string, units []*pipeline.Unit) error {
	for _, u := range units {
		if err := WriteUnit(dir, u); err != nil {
			return err
		}
	}
	return nil
}

// ReadUnit loads a previously written unit back from dir, so a load can be
// retried without re-running fetch and transform. A missing unit file yields
// an empty unit.
func ReadUnit(dir string, entity pipeline.EntityType) (*pipeline.Unit, error) {
	u := &pipeline.Unit{Entity: entity}
	data, err := os.ReadFile(filepath.Join(dir, u.Name()))
	if err != nil {
		if os.IsNotExist(err) {
			return u, nil
		}
		return nil, fmt.Errorf("reading unit %s: %w", u.Name(), err)
	}
	for _, s := range SplitStatements(string(data)) {
		u.Statements = append(u.Statements, pipeline.Statement(s))
	}
	return u, nil
}

// ReadUnits loads all units present in dir, in load order.
func ReadUnits(dir string) ([]*pipeline.Unit, error) {
	var units []*pipeline.Unit
	for _, entity := range pipeline.LoadOrder() {
		u, err := ReadUnit(dir, entity)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// SplitStatements splits unit file text back into individual statements.
// The scan is quote-aware: a semicolon inside a string literal (where quotes
// are doubled) does not terminate a statement, so bodies containing ";" or
// newlines round-trip exactly.
func SplitStatements(text string) []string {
	var (
		stmts    []string
		start    int
		inString bool
	)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\'':
			inString = !inString
		case ';':
			if inString {
				continue
			}
			stmt := strings.TrimSpace(text[start:i])
			if stmt != "" {
				stmts = append(stmts, stmt)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		stmts = append(stmts, tail)
	}
	return stmts
}
