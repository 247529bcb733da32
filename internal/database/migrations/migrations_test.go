package migrations

import (
	"strings"
	"testing"

	"wpmigrate/internal/database"
)

func TestMigrateUpAndCheckStatus(t *testing.T) {
	db, err := database.OpenSQLiteConnection(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := CheckStatus(db, "sqlite3"); err == nil {
		t.Error("CheckStatus before migration should fail")
	}

	if err := MigrateUp(db, "sqlite3"); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	if err := CheckStatus(db, "sqlite3"); err != nil {
		t.Errorf("CheckStatus after migration failed: %v", err)
	}

	// Running again is a no-op.
	if err := MigrateUp(db, "sqlite3"); err != nil {
		t.Errorf("second MigrateUp should be a no-op, got: %v", err)
	}
}

func TestMigrateUpCreatesTables(t *testing.T) {
	db, err := database.OpenSQLiteConnection(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db, "sqlite3"); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	for _, table := range []string{
		"authors", "categories", "tags", "posts", "pages",
		"comments", "media", "seo_metadata", "custom_fields", "redirects",
		"migration_runs",
	} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing after migration: %v", table, err)
		}
	}
}

func TestUnsupportedDriver(t *testing.T) {
	db, err := database.OpenSQLiteConnection(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	err = MigrateUp(db, "mysql")
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("unsupported driver should be rejected, got: %v", err)
	}
}
