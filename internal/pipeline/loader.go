package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Loader executes units against the destination store, sequentially, in the
// fixed dependency order, one transaction per unit.
type Loader struct {
	dest   Destination
	logger Logger
}

// NewLoader creates a Loader. logger may be nil, in which case output is
// discarded.
func NewLoader(dest Destination, logger Logger) *Loader {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Loader{dest: dest, logger: logger}
}

// LoadResult aggregates the outcome of one load pass.
type LoadResult struct {
	Succeeded   int
	Failed      int
	FailedUnits []string
	Errors      []*LoadError
}

// FailedUnitList returns the failed unit names joined with commas.
func (r *LoadResult) FailedUnitList() string {
	return strings.Join(r.FailedUnits, ",")
}

// Load executes the given units in the fixed dependency order. Units for
// entity types not present in the input are skipped.
//
// A statement failure rolls back only that unit's transaction; the unit is
// recorded as failed and later units are still attempted. An unreachable
// store is fatal: Load returns the partial result together with the
// *ConnectionError, and units already committed stay committed.
func (l *Loader) Load(units []*Unit) (*LoadResult, error) {
	byEntity := make(map[EntityType]*Unit, len(units))
	for _, u := range units {
		if _, dup := byEntity[u.Entity]; dup {
			return nil, fmt.Errorf("duplicate unit for entity type %q", u.Entity)
		}
		if _, known := dependencies[u.Entity]; !known {
			return nil, fmt.Errorf("unit for undeclared entity type %q", u.Entity)
		}
		byEntity[u.Entity] = u
	}

	if err := l.dest.Ping(); err != nil {
		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			err = &ConnectionError{Err: err}
		}
		return &LoadResult{}, err
	}

	result := &LoadResult{}
	for _, entity := range loadOrder {
		unit, ok := byEntity[entity]
		if !ok {
			continue
		}

		err := l.dest.ExecUnit(unit)
		if err == nil {
			result.Succeeded++
			l.logger.Info("unit committed", "unit", unit.Name(), "statements", len(unit.Statements))
			continue
		}

		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			l.logger.Error("connection lost, aborting run", "unit", unit.Name(), "error", connErr.Err)
			return result, connErr
		}

		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			loadErr = &LoadError{Unit: unit.Name(), Category: LoadOther, Err: err}
		}
		result.Failed++
		result.FailedUnits = append(result.FailedUnits, unit.Name())
		result.Errors = append(result.Errors, loadErr)
		l.logger.Error("unit rolled back", "unit", unit.Name(), "category", string(loadErr.Category), "error", loadErr.Err)
	}

	return result, nil
}
