package pipeline

import "fmt"

// LoadCategory classifies a failed unit's originating error.
type LoadCategory string

const (
	LoadConstraint LoadCategory = "constraint-violation"
	LoadMalformed  LoadCategory = "malformed-data"
	LoadSyntax     LoadCategory = "statement-syntax"
	LoadOther      LoadCategory = "other"
)

// TransformError reports a missing or malformed required field. It fails the
// entire transform for the affected entity type; no unit is produced for it.
type TransformError struct {
	Entity EntityType
	WPID   int64  // external id of the offending record, 0 if that is what is missing
	Field  string // the required field that is absent or malformed
}

func (e *TransformError) Error() string {
	if e.WPID == 0 {
		return fmt.Sprintf("%s: record missing required field %q", e.Entity, e.Field)
	}
	return fmt.Sprintf("%s: record %d missing required field %q", e.Entity, e.WPID, e.Field)
}

// LoadError reports a statement failure inside a unit. The unit's transaction
// has been rolled back; later units are still attempted.
type LoadError struct {
	Unit      string
	Category  LoadCategory
	Statement int // zero-based index of the failing statement within the unit
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unit %s: statement %d: %s: %v", e.Unit, e.Statement, e.Category, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConnectionError reports that the destination store is unreachable. It is
// fatal for the whole run; no further units are attempted.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("destination unreachable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
