package config

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/bcrypt"
)

// passphraseFile is where the hashed control-socket passphrase is
// persisted, mirroring the teacher's pattern of storing a derived secret
// (internal/database/password.go's Argon2id hash) rather than plaintext.
// bcrypt is used here instead of the teacher's Argon2id because this
// guards one operator-supplied passphrase, not a multi-user password
// table — bcrypt's single-call API is the idiomatic fit for that shape.
const passphraseFile = "socket-passphrase.hash"

// HashAndPersistPassphrase bcrypt-hashes plaintext and writes it to
// <dataDir>/socket-passphrase.hash, replacing any previous hash. Passing
// an empty plaintext removes the requirement entirely.
func HashAndPersistPassphrase(dataDir, plaintext string) error {
	path := filepath.Join(dataDir, passphraseFile)
	if plaintext == "" {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing passphrase hash: %w", err)
		}
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing passphrase: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, hash, 0o600); err != nil {
		return fmt.Errorf("writing passphrase hash: %w", err)
	}
	return nil
}

// VerifyPassphrase checks plaintext against the hash persisted at
// <dataDir>/socket-passphrase.hash. ok is false with a nil error when no
// hash file exists — the control socket has no passphrase requirement.
func VerifyPassphrase(dataDir, plaintext string) (ok bool, configured bool, err error) {
	hash, err := os.ReadFile(filepath.Join(dataDir, passphraseFile))
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, true, fmt.Errorf("reading passphrase hash: %w", err)
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil, true, nil
}
