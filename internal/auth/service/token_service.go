package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// TokenPrefix marks bearer secrets issued by the repository.
const TokenPrefix = "brt_"

const tokenEntropyBytes = 32

type tokenService struct{}

// GenerateToken creates a prefixed, base64url encoded secret with 256 bits of entropy.
func (t *tokenService) GenerateToken() (string, string, error) {
	randomBytes := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken := TokenPrefix + base64.RawURLEncoding.EncodeToString(randomBytes)
	return plainToken, t.HashToken(plainToken), nil
}

// HashToken returns the hex encoded SHA-256 of the secret.
func (t *tokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

// NewTokenService creates a TokenService using SHA-256 lookup hashes.
func NewTokenService() TokenService {
	return &tokenService{}
}
