package transform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wpmigrate/internal/pipeline"
)

func TestWriteAndReadUnit(t *testing.T) {
	dir := t.TempDir()

	u := &pipeline.Unit{
		Entity: pipeline.Posts,
		Statements: []pipeline.Statement{
			"INSERT INTO posts (wp_id, title) VALUES (1, 'hello')",
			"INSERT INTO posts (wp_id, title) VALUES (2, 'with; semicolon\nand newline')",
			"INSERT INTO posts (wp_id, title) VALUES (3, 'it''s quoted')",
		},
	}

	if err := WriteUnit(dir, u); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}

	got, err := ReadUnit(dir, pipeline.Posts)
	if err != nil {
		t.Fatalf("ReadUnit failed: %v", err)
	}

	if len(got.Statements) != len(u.Statements) {
		t.Fatalf("round-trip statement count = %d, want %d", len(got.Statements), len(u.Statements))
	}
	for i := range u.Statements {
		if got.Statements[i] != u.Statements[i] {
			t.Errorf("statement %d = %q, want %q", i, got.Statements[i], u.Statements[i])
		}
	}
}

func TestReadUnitMissingFile(t *testing.T) {
	got, err := ReadUnit(t.TempDir(), pipeline.Comments)
	if err != nil {
		t.Fatalf("ReadUnit on missing file failed: %v", err)
	}
	if got.Entity != pipeline.Comments {
		t.Errorf("Entity = %q, want %q", got.Entity, pipeline.Comments)
	}
	if len(got.Statements) != 0 {
		t.Errorf("missing unit file should yield zero statements, got %d", len(got.Statements))
	}
}

func TestWriteUnitLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	u := &pipeline.Unit{Entity: pipeline.Tags, Statements: []pipeline.Statement{"SELECT 1"}}
	if err := WriteUnit(dir, u); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "tags.sql" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents = %v, want [tags.sql]", names)
	}
}

func TestReadUnits(t *testing.T) {
	dir := t.TempDir()

	units := []*pipeline.Unit{
		{Entity: pipeline.Authors, Statements: []pipeline.Statement{"INSERT INTO authors (wp_id) VALUES (1)"}},
		{Entity: pipeline.Posts, Statements: []pipeline.Statement{"INSERT INTO posts (wp_id) VALUES (1)"}},
	}
	if err := WriteUnits(dir, units); err != nil {
		t.Fatalf("WriteUnits failed: %v", err)
	}

	got, err := ReadUnits(dir)
	if err != nil {
		t.Fatalf("ReadUnits failed: %v", err)
	}

	if len(got) != len(pipeline.LoadOrder()) {
		t.Fatalf("ReadUnits returned %d units, want one per entity type (%d)", len(got), len(pipeline.LoadOrder()))
	}
	for i, entity := range pipeline.LoadOrder() {
		if got[i].Entity != entity {
			t.Errorf("unit %d entity = %q, want %q", i, got[i].Entity, entity)
		}
	}
	if len(got[0].Statements) != 1 {
		t.Errorf("authors unit statements = %d, want 1", len(got[0].Statements))
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "SELECT 1;\n", []string{"SELECT 1"}},
		{"two", "SELECT 1;\nSELECT 2;\n", []string{"SELECT 1", "SELECT 2"}},
		{"semicolon in literal", "INSERT INTO t VALUES ('a;b');\n", []string{"INSERT INTO t VALUES ('a;b')"}},
		{"doubled quote then semicolon", "INSERT INTO t VALUES ('it''s');\nSELECT 2;\n",
			[]string{"INSERT INTO t VALUES ('it''s')", "SELECT 2"}},
		{"no trailing terminator", "SELECT 1", []string{"SELECT 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitStatements(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitStatements(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("statement %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWriteUnitFileFormat(t *testing.T) {
	dir := t.TempDir()

	u := &pipeline.Unit{
		Entity:     pipeline.Redirects,
		Statements: []pipeline.Statement{"SELECT 1", "SELECT 2"},
	}
	if err := WriteUnit(dir, u); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "redirects.sql"))
	if err != nil {
		t.Fatalf("reading unit file: %v", err)
	}
	want := "SELECT 1;\nSELECT 2;\n"
	if string(data) != want {
		t.Errorf("unit file = %q, want %q", data, want)
	}
	if !strings.HasSuffix(string(data), ";\n") {
		t.Error("every statement should be semicolon-terminated")
	}
}
