package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"ft-go/internal/config"
	"ft-go/internal/ft"
)

// ErrKeysExist is returned by Setup when a key pair is already present.
var ErrKeysExist = errors.New("encryption keys already exist")

// AgeEncryptor seals snapshots with filippo.io/age X25519 keys. The public key
// is stored in plaintext so sealing never prompts; the private key is wrapped
// with age's scrypt passphrase encryption.
type AgeEncryptor struct {
	publicKeyPath  string
	privateKeyPath string
}

var _ ft.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates an AgeEncryptor for the key paths in cfg.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
	}
}

// Setup generates a key pair. Existing keys are never replaced, since every
// snapshot sealed for them would become unreadable.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if e.IsConfigured() {
		return ErrKeysExist
	}
	if passphrase == "" {
		return errors.New("passphrase must not be empty")
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
	}

	wrapped, err := wrapIdentity(identity, passphrase)
	if err != nil {
		return err
	}
	if err := os.WriteFile(e.privateKeyPath, wrapped, 0600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	if err := os.WriteFile(e.publicKeyPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	return nil
}

// wrapIdentity encrypts the identity's text form with a scrypt recipient.
func wrapIdentity(identity *age.X25519Identity, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		return nil, fmt.Errorf("writing encrypted private key: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encrypted private key: %w", err)
	}
	return buf.Bytes(), nil
}

// Seal encrypts plaintext for the stored public key.
func (e *AgeEncryptor) Seal(plaintext []byte) ([]byte, error) {
	recipient, err := e.loadRecipient()
	if err != nil {
		return nil, fmt.Errorf("loading public key: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypting data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return buf.Bytes(), nil
}

// Unlock decrypts the private key with passphrase.
func (e *AgeEncryptor) Unlock(passphrase string) (ft.Opener, error) {
	wrapped, err := os.ReadFile(e.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key file: %w", err)
	}

	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(wrapped), scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypting private key: %w", err)
	}

	identities, err := age.ParseIdentities(r)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(identities) == 0 {
		return nil, errors.New("no identities found in private key")
	}
	return &AgeOpener{identity: identities[0]}, nil
}

// IsConfigured returns true if both key files exist.
func (e *AgeEncryptor) IsConfigured() bool {
	if _, err := os.Stat(e.publicKeyPath); err != nil {
		return false
	}
	if _, err := os.Stat(e.privateKeyPath); err != nil {
		return false
	}
	return true
}

func (e *AgeEncryptor) loadRecipient() (age.Recipient, error) {
	data, err := os.ReadFile(e.publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	recipients, err := age.ParseRecipients(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if len(recipients) == 0 {
		return nil, errors.New("no recipients found in public key file")
	}
	return recipients[0], nil
}

// AgeOpener holds an unlocked age identity for the rest of the process.
type AgeOpener struct {
	identity age.Identity
}

var _ ft.Opener = (*AgeOpener)(nil)

// Open decrypts a sealed snapshot.
func (o *AgeOpener) Open(ciphertext []byte) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(ciphertext), o.identity)
	if err != nil {
		return nil, fmt.Errorf("creating decrypted reader: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decrypting data: %w", err)
	}
	return plaintext, nil
}
