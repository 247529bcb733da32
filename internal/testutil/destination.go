package testutil

import (
	"wpmigrate/internal/pipeline"
)

// FakeDestination records executed units and returns injected errors, for
// testing loader behavior without a real store.
type FakeDestination struct {
	// Executed holds the names of units passed to ExecUnit, in order.
	Executed []string

	// UnitErrors maps a unit name to the error ExecUnit returns for it.
	UnitErrors map[string]error

	// PingErr, when set, is returned by Ping.
	PingErr error

	// Runs holds records passed to CreateRun.
	Runs []*pipeline.Run

	FinishedID     string
	FinishedStatus string
	FinishedUnits  string
	Closed         bool
}

func NewFakeDestination() *FakeDestination {
	return &FakeDestination{UnitErrors: make(map[string]error)}
}

func (d *FakeDestination) Ping() error { return d.PingErr }

func (d *FakeDestination) ExecUnit(u *pipeline.Unit) error {
	if err, ok := d.UnitErrors[u.Name()]; ok {
		return err
	}
	d.Executed = append(d.Executed, u.Name())
	return nil
}

func (d *FakeDestination) CreateRun(run *pipeline.Run) error {
	d.Runs = append(d.Runs, run)
	return nil
}

func (d *FakeDestination) FinishRun(id, status, failedUnits string) error {
	d.FinishedID = id
	d.FinishedStatus = status
	d.FinishedUnits = failedUnits
	return nil
}

func (d *FakeDestination) ListRuns(limit int) ([]*pipeline.Run, error) {
	if limit < len(d.Runs) {
		return d.Runs[:limit], nil
	}
	return d.Runs, nil
}

func (d *FakeDestination) Close() error {
	d.Closed = true
	return nil
}
