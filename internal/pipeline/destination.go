package pipeline

// Destination is the relational store units are loaded into. A single handle
// is constructed per run and must be closed on every exit path.
type Destination interface {
	// Ping verifies the store is reachable. Returns a *ConnectionError when
	// it is not.
	Ping() error

	// ExecUnit executes all of a unit's statements inside one transaction.
	// A statement failure rolls the transaction back and is returned as a
	// *LoadError; an unreachable store is returned as a *ConnectionError.
	ExecUnit(u *Unit) error

	// CreateRun records the start of a migration run.
	CreateRun(run *Run) error

	// FinishRun records the outcome of a migration run.
	FinishRun(id, status, failedUnits string) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*Run, error)

	// Close releases the underlying connection.
	Close() error
}
