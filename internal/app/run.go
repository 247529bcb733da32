package app

import (
	"time"

	"wpmigrate/internal/pipeline"
)

// MigrationRun tracks a CLI operation against the destination store. Runs are
// created in memory and persisted only by commands that mutate the
// destination, so read-only commands leave no trace in the run history.
type MigrationRun struct {
	ID          string
	Operation   string
	StartedAt   time.Time
	Status      string // "success" or "error"
	FailedUnits []string
	persisted   bool
}

// NewMigrationRun creates a new in-memory run record.
func NewMigrationRun(id, operation string, startedAt time.Time) *MigrationRun {
	return &MigrationRun{
		ID:        id,
		Operation: operation,
		StartedAt: startedAt,
		Status:    "success",
	}
}

// Persisted returns true if this run has been saved to the destination store.
func (r *MigrationRun) Persisted() bool { return r.persisted }

// Record converts the run to its persistence shape.
func (r *MigrationRun) Record() *pipeline.Run {
	return &pipeline.Run{
		ID:        r.ID,
		Operation: r.Operation,
		StartedAt: r.StartedAt,
		Status:    "running",
	}
}
