// Package app wires configuration, logging, the destination store, the
// artifact archive and the pipeline stages into one application context used
// by the CLI commands.
package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wpmigrate/internal/archive"
	"wpmigrate/internal/config"
	"wpmigrate/internal/database"
	"wpmigrate/internal/database/migrations"
	"wpmigrate/internal/encryption"
	"wpmigrate/internal/fetch"
	"wpmigrate/internal/model"
	"wpmigrate/internal/pipeline"
	"wpmigrate/internal/transform"
	"wpmigrate/internal/validate"
)

// App holds the wired components for one CLI invocation.
type App struct {
	Config    *config.Config
	Logger    pipeline.Logger
	Store     *database.Store
	Archive   pipeline.Archive
	Encryptor pipeline.Encryptor

	run     *MigrationRun
	loader  *pipeline.Loader
	logFile *os.File
}

// NewApp creates an application context for the given operation. The
// destination connection string for postgres comes from WPM_DATABASE_URL (or
// DATABASE_URL) in the environment. clock and idGen may be nil, in which case
// the real clock and uuid-backed run IDs are used.
func NewApp(cfg *config.Config, operation string, clock pipeline.Clock, idGen pipeline.IDGenerator) (*App, error) {
	if clock == nil {
		clock = pipeline.RealClock{}
	}
	if idGen == nil {
		idGen = pipeline.UUIDGenerator{}
	}
	runID := idGen.New()

	slogger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, err
	}
	logger := &slogAdapter{l: slogger}

	store, err := database.NewStoreFromConfig(cfg.Database, DatabaseURL())
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("initializing destination store: %w", err)
	}

	arch, err := archive.NewArchiveFromConfig(cfg.Archive)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("initializing archive: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		store.Close()
		logFile.Close()
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Archive:   arch,
		Encryptor: enc,
		run:       NewMigrationRun(runID, operation, clock.Now()),
		loader:    pipeline.NewLoader(store, logger),
		logFile:   logFile,
	}
	logger.Info("starting operation", "operation", operation)
	return a, nil
}

// RunID returns the identifier of the current run.
func (a *App) RunID() string { return a.run.ID }

// Schema brings the destination schema to the latest version.
func (a *App) Schema() error {
	if err := migrations.MigrateUp(a.Store.DB(), a.Store.DriverName()); err != nil {
		return a.fail(err)
	}
	a.Logger.Info("destination schema is up to date")
	return nil
}

// Fetch downloads the full content snapshot from the source site into the
// configured data directory.
func (a *App) Fetch() error {
	timeout := time.Duration(a.Config.Fetch.TimeoutSeconds) * time.Second
	client := fetch.NewClient(a.Config.APIBase(), timeout, a.Config.Fetch.RetryCount, a.Logger)
	if err := client.FetchAll(a.Config.DataDir); err != nil {
		return a.fail(fmt.Errorf("fetching snapshot: %w", err))
	}
	return nil
}

// Validate loads the snapshot and checks it for duplicates and orphans. The
// report is advisory; only a malformed snapshot is an error.
func (a *App) Validate() (*validate.Report, error) {
	snap, err := model.LoadSnapshot(a.Config.DataDir)
	if err != nil {
		return nil, a.fail(fmt.Errorf("loading snapshot: %w", err))
	}
	report, err := validate.Check(snap)
	if err != nil {
		return nil, a.fail(err)
	}
	return report, nil
}

// Transform converts the snapshot into statement units in the configured SQL
// directory and returns the number of units written.
func (a *App) Transform() (int, error) {
	snap, err := model.LoadSnapshot(a.Config.DataDir)
	if err != nil {
		return 0, a.fail(fmt.Errorf("loading snapshot: %w", err))
	}
	units, err := transform.Snapshot(snap, a.Logger)
	if err != nil {
		return 0, a.fail(err)
	}
	if err := transform.WriteUnits(a.Config.SQLDir, units); err != nil {
		return 0, a.fail(err)
	}
	return len(units), nil
}

// Load reads the statement units from the SQL directory and executes them
// against the destination store. The returned result reports per-unit
// outcomes; err is non-nil only for fatal conditions such as a lost
// connection or a schema that is not current.
func (a *App) Load() (*pipeline.LoadResult, error) {
	if err := migrations.CheckStatus(a.Store.DB(), a.Store.DriverName()); err != nil {
		return nil, a.fail(err)
	}

	units, err := transform.ReadUnits(a.Config.SQLDir)
	if err != nil {
		return nil, a.fail(err)
	}

	if !a.run.Persisted() {
		if err := a.Store.CreateRun(a.run.Record()); err != nil {
			return nil, a.fail(fmt.Errorf("recording run: %w", err))
		}
		a.run.persisted = true
	}

	result, err := a.loader.Load(units)
	if result != nil {
		a.run.FailedUnits = result.FailedUnits
		if result.Failed > 0 {
			a.run.Status = "error"
		}
	}
	if err != nil {
		return result, a.fail(err)
	}
	return result, nil
}

// Migrate runs the full pipeline: fetch, validate (report only), transform,
// load, archive. The first stage error halts the sequence.
func (a *App) Migrate(reportOut io.Writer) (*pipeline.LoadResult, error) {
	if err := a.Fetch(); err != nil {
		return nil, err
	}

	report, err := a.Validate()
	if err != nil {
		return nil, err
	}
	if reportOut != nil {
		report.Write(reportOut)
	}

	if _, err := a.Transform(); err != nil {
		return nil, err
	}

	result, err := a.Load()
	if err != nil {
		return result, err
	}

	if err := a.ArchiveArtifacts(); err != nil {
		return result, err
	}
	return result, nil
}

// ArchiveArtifacts uploads the run's snapshot files (encrypted) and statement
// units to the configured archive under runs/<runID>/.
func (a *App) ArchiveArtifacts() error {
	if err := a.Archive.ValidateSetup(); err != nil {
		return a.fail(fmt.Errorf("archive not usable: %w", err))
	}

	for _, file := range model.SnapshotFiles() {
		path := filepath.Join(a.Config.DataDir, file)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return a.fail(fmt.Errorf("reading snapshot file %s: %w", file, err))
		}

		var enc bytes.Buffer
		if err := a.Encryptor.Encrypt(bytes.NewReader(data), &enc); err != nil {
			return a.fail(fmt.Errorf("encrypting %s: %w", file, err))
		}

		key := "runs/" + a.run.ID + "/snapshots/" + file
		if err := a.Archive.Put(key, &enc, int64(enc.Len())); err != nil {
			return a.fail(fmt.Errorf("archiving %s: %w", file, err))
		}
	}

	for _, entity := range pipeline.LoadOrder() {
		name := (&pipeline.Unit{Entity: entity}).Name()
		data, err := os.ReadFile(filepath.Join(a.Config.SQLDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return a.fail(fmt.Errorf("reading unit %s: %w", name, err))
		}

		key := "runs/" + a.run.ID + "/units/" + name
		if err := a.Archive.Put(key, bytes.NewReader(data), int64(len(data))); err != nil {
			return a.fail(fmt.Errorf("archiving %s: %w", name, err))
		}
	}

	a.Logger.Info("run artifacts archived", "run_id", a.run.ID)
	return nil
}

// History returns the most recent runs recorded in the destination store.
func (a *App) History(limit int) ([]*pipeline.Run, error) {
	runs, err := a.Store.ListRuns(limit)
	if err != nil {
		return nil, a.fail(err)
	}
	return runs, nil
}

// fail marks the current run as failed and passes the error through.
func (a *App) fail(err error) error {
	a.run.Status = "error"
	a.Logger.Error("operation failed", "operation", a.run.Operation, "error", err)
	return err
}

// Close finalizes the run record if one was persisted and releases the store
// and log file.
func (a *App) Close() error {
	var firstErr error

	if a.run.Persisted() {
		failed := strings.Join(a.run.FailedUnits, ",")
		if err := a.Store.FinishRun(a.run.ID, a.run.Status, failed); err != nil {
			firstErr = fmt.Errorf("finalizing run record: %w", err)
		}
	}

	if err := a.Store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.logFile.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
