// Package service provides the token secret primitives used by the authentication domain.
package service

// TokenService generates bearer secrets and derives their lookup hashes.
type TokenService interface {
	// GenerateToken returns a new bearer secret and its hash. The secret is shown once.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken derives the stored lookup hash of a bearer secret.
	HashToken(plainToken string) string
}
