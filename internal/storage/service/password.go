package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// PasswordHasher hashes file passwords with Argon2id.
type PasswordHasher struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordHasher creates a hasher using the Moderate policy.
func NewPasswordHasher() *PasswordHasher {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &PasswordHasher{hasher: hasher}
}

// Hash returns the encoded hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := h.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash file password")
	}
	return hash, nil
}

// Verify performs a constant-time comparison of password against hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	ok, err := h.hasher.Verify([]byte(password), hash)
	if err != nil {
		return false
	}
	return ok
}
