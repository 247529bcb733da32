package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSnapshotMissingFilesAreEmpty(t *testing.T) {
	snap, err := LoadSnapshot(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSnapshot on empty dir failed: %v", err)
	}
	if len(snap.Authors) != 0 || len(snap.Posts) != 0 || len(snap.Redirects) != 0 {
		t.Errorf("empty dir should yield empty collections, got %+v", snap)
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	dir := t.TempDir()

	authors := []Author{{ID: 1, Name: "Alice", Slug: "alice"}}
	if err := SaveJSON(dir, AuthorsFile, authors); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}
	posts := []Post{{ID: 2, Slug: "hello", Title: Rendered{Rendered: "Hello"}}}
	if err := SaveJSON(dir, PostsFile, posts); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	snap, err := LoadSnapshot(dir)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(snap.Authors) != 1 || snap.Authors[0].Name != "Alice" {
		t.Errorf("authors = %+v", snap.Authors)
	}
	if len(snap.Posts) != 1 || snap.Posts[0].Title.Rendered != "Hello" {
		t.Errorf("posts = %+v", snap.Posts)
	}
}

func TestLoadSnapshotBadJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, PostsFile), []byte("{broken"), 0644); err != nil {
		t.Fatalf("writing bad file: %v", err)
	}
	if _, err := LoadSnapshot(dir); err == nil {
		t.Error("undecodable snapshot file should be an error")
	}
}

func TestAuthorOptionalEmail(t *testing.T) {
	dir := t.TempDir()
	data := `[{"id": 1, "name": "Alice", "slug": "alice"},
	          {"id": 2, "name": "Bob", "slug": "bob", "email": "bob@example.com"}]`
	if err := os.WriteFile(filepath.Join(dir, AuthorsFile), []byte(data), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	snap, err := LoadSnapshot(dir)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap.Authors[0].Email != nil {
		t.Error("absent email should decode as nil, not empty string")
	}
	if snap.Authors[1].Email == nil || *snap.Authors[1].Email != "bob@example.com" {
		t.Errorf("present email = %v", snap.Authors[1].Email)
	}
}

func TestSnapshotFilesCoverEveryCollection(t *testing.T) {
	files := SnapshotFiles()
	if len(files) != 10 {
		t.Errorf("snapshot file count = %d, want 10", len(files))
	}
	seen := make(map[string]bool)
	for _, f := range files {
		if seen[f] {
			t.Errorf("file %s listed twice", f)
		}
		seen[f] = true
	}
}
