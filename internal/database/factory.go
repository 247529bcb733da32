package database

import (
	"fmt"
	"path/filepath"

	"wpmigrate/internal/config"
)

// NewStoreFromConfig creates a destination Store based on the database config
// type. dsn is the connection string from the process environment; it is
// required for postgres and ignored for the embedded backends.
func NewStoreFromConfig(cfg config.DatabaseConfig, dsn string) (*Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "wpmigrate.db"))
	case "memory":
		return NewSQLiteStore(":memory:")
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("postgres database requires a connection string in the environment")
		}
		return NewPostgresStore(dsn)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
