package encryption

import (
	"bytes"
	"errors"

	"ft-go/internal/ft"
)

// testHeader marks data sealed by TestEncryptor so sealed bytes never equal
// the plaintext.
var testHeader = []byte("FTENC\x00\x00\x00")

// ErrNotSealed is returned when opening bytes that lack the test header.
var ErrNotSealed = errors.New("invalid test encryption header")

// TestEncryptor is a deterministic, reversible stand-in for AgeEncryptor.
// Unlock accepts any passphrase except WrongPassphrase.
type TestEncryptor struct {
	setupCalled bool
}

// WrongPassphrase is the one passphrase TestEncryptor rejects.
const WrongPassphrase = "wrong"

var _ ft.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.setupCalled = true
	return nil
}

func (e *TestEncryptor) Seal(plaintext []byte) ([]byte, error) {
	out := make([]byte, 0, len(testHeader)+len(plaintext))
	out = append(out, testHeader...)
	return append(out, plaintext...), nil
}

func (e *TestEncryptor) Unlock(passphrase string) (ft.Opener, error) {
	if passphrase == WrongPassphrase {
		return nil, errors.New("decrypting private key: incorrect passphrase")
	}
	return testOpener{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

type testOpener struct{}

func (testOpener) Open(ciphertext []byte) ([]byte, error) {
	if !bytes.HasPrefix(ciphertext, testHeader) {
		return nil, ErrNotSealed
	}
	return bytes.Clone(ciphertext[len(testHeader):]), nil
}
