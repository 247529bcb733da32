package archive

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryArchivePutGet(t *testing.T) {
	a := NewMemoryArchive("test")

	content := "statement unit text"
	if err := a.Put("runs/r1/units/posts.sql", strings.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	var out bytes.Buffer
	if err := a.Get("runs/r1/units/posts.sql", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out.String() != content {
		t.Errorf("Get = %q, want %q", out.String(), content)
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}
}

func TestMemoryArchiveSizeMismatch(t *testing.T) {
	a := NewMemoryArchive("test")
	if err := a.Put("key", strings.NewReader("abc"), 5); err == nil {
		t.Error("size mismatch should fail the put")
	}
}

func TestMemoryArchiveMissingKey(t *testing.T) {
	a := NewMemoryArchive("test")
	var out bytes.Buffer
	if err := a.Get("nope", &out); err == nil {
		t.Error("missing key should fail")
	}
}

func TestMemoryArchiveValidateSetup(t *testing.T) {
	if err := NewMemoryArchive("test").ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup failed: %v", err)
	}
}
