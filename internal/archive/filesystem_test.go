package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSystemArchivePutGet(t *testing.T) {
	root := t.TempDir()
	a, err := NewFileSystemArchive("test", root)
	if err != nil {
		t.Fatalf("NewFileSystemArchive failed: %v", err)
	}

	content := "encrypted snapshot bytes"
	key := "runs/r1/snapshots/authors.json"
	if err := a.Put(key, strings.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, key)); err != nil {
		t.Fatalf("archived file missing: %v", err)
	}

	var out bytes.Buffer
	if err := a.Get(key, &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out.String() != content {
		t.Errorf("Get = %q, want %q", out.String(), content)
	}
}

func TestFileSystemArchiveRejectsTraversal(t *testing.T) {
	a, err := NewFileSystemArchive("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemArchive failed: %v", err)
	}

	for _, key := range []string{"../escape", "/abs/path", "a/../../b"} {
		if err := a.Put(key, strings.NewReader("x"), 1); err == nil {
			t.Errorf("key %q should be rejected", key)
		}
	}
}

func TestFileSystemArchiveValidateSetup(t *testing.T) {
	a, err := NewFileSystemArchive("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemArchive failed: %v", err)
	}
	if err := a.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup failed: %v", err)
	}
}
