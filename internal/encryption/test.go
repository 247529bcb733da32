package encryption

import (
	"io"

	"wpmigrate/internal/pipeline"
)

// TestEncryptor is a trivially reversible stand-in used in tests: it wraps
// the payload in a fixed marker so encrypted output is distinguishable from
// plaintext without any key material.
type TestEncryptor struct{}

var _ pipeline.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a new TestEncryptor.
func NewTestEncryptor() *TestEncryptor { return &TestEncryptor{} }

const testHeader = "TESTENC\n"

func (*TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.WriteString(w, testHeader); err != nil {
		return err
	}
	_, err := io.Copy(w, r)
	return err
}

func (*TestEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return err
	}
	_, err := io.Copy(w, r)
	return err
}
