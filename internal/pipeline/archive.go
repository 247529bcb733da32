package pipeline

import "io"

// Archive stores run artifacts (snapshot JSON, unit SQL files) durably so a
// load can be retried or audited without re-running fetch and transform.
type Archive interface {
	// Put stores an artifact under the given key. Storing the same key twice
	// overwrites.
	Put(key string, r io.Reader, size int64) error

	// Get retrieves an artifact by key and writes it to w.
	Get(key string, w io.Writer) error

	// ValidateSetup verifies the archive backend is accessible.
	ValidateSetup() error
}

// Encryptor encrypts snapshot artifacts before they reach the archive.
// Snapshots carry author emails, which should not land on shared storage in
// the clear.
type Encryptor interface {
	Encrypt(r io.Reader, w io.Writer) error
	Decrypt(r io.Reader, w io.Writer) error
}
