package ft

// Encryptor seals snapshot bytes at rest. Sealing uses the public key only, so
// every successful operation can persist without user interaction. Opening a
// sealed snapshot needs the private key, which is protected by a passphrase.
type Encryptor interface {
	// Setup generates a key pair and protects the private key with passphrase.
	// Called once by `ft config init --encrypt`.
	Setup(passphrase string) error

	// Seal encrypts plaintext for the configured public key.
	Seal(plaintext []byte) ([]byte, error)

	// Unlock decrypts the private key and returns an Opener for the session.
	// Returns an error if the passphrase is wrong.
	Unlock(passphrase string) (Opener, error)

	// IsConfigured returns true if both key files exist.
	IsConfigured() bool
}

// Opener decrypts sealed snapshots with an unlocked private key held in memory only.
type Opener interface {
	Open(ciphertext []byte) ([]byte, error)
}
