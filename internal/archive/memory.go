package archive

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"wpmigrate/internal/pipeline"
)

// MemoryArchive is an in-memory implementation of the Archive interface,
// useful for testing. This implementation is safe for concurrent use.
type MemoryArchive struct {
	name    string
	objects map[string][]byte
	mu      sync.RWMutex
}

var _ pipeline.Archive = (*MemoryArchive)(nil)

// NewMemoryArchive creates a new in-memory archive with the given name.
func NewMemoryArchive(name string) *MemoryArchive {
	return &MemoryArchive{
		name:    name,
		objects: make(map[string][]byte),
	}
}

// Put stores an artifact under the given key, overwriting any previous value.
func (a *MemoryArchive) Put(key string, r io.Reader, size int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading artifact: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[key] = data
	return nil
}

// Get retrieves an artifact by key and writes it to w.
func (a *MemoryArchive) Get(key string, w io.Writer) error {
	a.mu.RLock()
	data, ok := a.objects[key]
	a.mu.RUnlock()
	if !ok {
		return fmt.Errorf("artifact not found: %s", key)
	}
	_, err := io.Copy(w, bytes.NewReader(data))
	return err
}

// ValidateSetup always succeeds for the in-memory backend.
func (a *MemoryArchive) ValidateSetup() error { return nil }

// Len returns the number of stored artifacts. Test helper.
func (a *MemoryArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.objects)
}
