// Package auth hashes and verifies user passwords.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jon4hz/decksmith/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Hasher turns plaintext passwords into stored digests and checks them.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// NewHasher returns the hasher selected in the auth config.
func NewHasher(cfg *config.AuthConfig) Hasher {
	if cfg != nil && cfg.PasswordHash == config.PasswordHashBcrypt {
		return &Bcrypt{Cost: cfg.GetBcryptCost()}
	}
	return SHA256{}
}

// SHA256 produces the lowercase hex sha256 digest of the password.
// It is deterministic, which keeps existing user files valid.
type SHA256 struct{}

// Hash implements Hasher.
func (SHA256) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Verify implements Hasher.
func (h SHA256) Verify(hash, password string) bool {
	candidate, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(candidate)) == 1
}

// Bcrypt hashes with bcrypt. Verify also accepts sha256 digests written
// before bcrypt was enabled.
type Bcrypt struct {
	Cost int
}

// Hash implements Hasher.
func (b *Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify implements Hasher.
func (b *Bcrypt) Verify(hash, password string) bool {
	if !strings.HasPrefix(hash, "$2") {
		return SHA256{}.Verify(hash, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
