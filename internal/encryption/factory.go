package encryption

import (
	"errors"
	"fmt"
	"strings"

	"ft-go/internal/config"
	"ft-go/internal/ft"
)

// NewEncryptorFromConfig returns the snapshot Encryptor selected by cfg.Type.
// An empty type means age, which needs both key paths.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (ft.Encryptor, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "age":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, errors.New("age encryption needs public_key_path and private_key_path")
		}
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	}
	return nil, fmt.Errorf("unsupported encryption type %q (want age or test)", cfg.Type)
}
