package snapshot

import (
	"context"
	"fmt"
	"sync"

	"ft-go/internal/ft"
)

// PassphraseFunc supplies the passphrase that unlocks the private key.
type PassphraseFunc func() (string, error)

// EncryptedStore seals snapshots before handing them to the wrapped store.
// Put only needs the public key. The first Get asks for the passphrase once
// and keeps the unlocked Opener for the rest of the process.
type EncryptedStore struct {
	inner      ft.SnapshotStore
	enc        ft.Encryptor
	passphrase PassphraseFunc

	mu     sync.Mutex
	opener ft.Opener
}

var _ ft.SnapshotStore = (*EncryptedStore)(nil)

func NewEncryptedStore(inner ft.SnapshotStore, enc ft.Encryptor, passphrase PassphraseFunc) *EncryptedStore {
	return &EncryptedStore{inner: inner, enc: enc, passphrase: passphrase}
}

func (s *EncryptedStore) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil || sealed == nil {
		return sealed, err
	}

	opener, err := s.unlock()
	if err != nil {
		return nil, err
	}
	data, err := opener.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	return data, nil
}

func (s *EncryptedStore) Put(ctx context.Context, key string, data []byte) error {
	sealed, err := s.enc.Seal(data)
	if err != nil {
		return fmt.Errorf("sealing snapshot: %w", err)
	}
	return s.inner.Put(ctx, key, sealed)
}

func (s *EncryptedStore) Close() error {
	return s.inner.Close()
}

func (s *EncryptedStore) unlock() (ft.Opener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opener != nil {
		return s.opener, nil
	}
	if !s.enc.IsConfigured() {
		return nil, fmt.Errorf("snapshot is encrypted but no keys are configured")
	}
	passphrase, err := s.passphrase()
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	opener, err := s.enc.Unlock(passphrase)
	if err != nil {
		return nil, fmt.Errorf("unlocking snapshot key: %w", err)
	}
	s.opener = opener
	return opener, nil
}
