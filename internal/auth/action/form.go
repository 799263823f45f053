// Package action implements the token management operations: each handler checks
// one security context decision, calls the user manager and returns a crud.Response.
package action

import (
	"time"

	"github.com/google/uuid"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
)

// GenerateTokenForm is a parsed token generation request.
type GenerateTokenForm struct {
	// ID is an optional caller-chosen identifier.
	ID        string
	Roles     []string
	Data      authDomain.TokenData
	ExpiresAt *time.Time
}

// SearchTokensForm is a parsed token search request.
type SearchTokensForm struct {
	Role       string
	ActiveOnly bool
	Page       int
	Limit      int
}

// TokenView is the public representation of a token. It never carries the hash.
type TokenView struct {
	ID        uuid.UUID            `json:"id"`
	Roles     []string             `json:"roles"`
	Data      authDomain.TokenData `json:"data"`
	Active    bool                 `json:"active"`
	ExpiresAt time.Time            `json:"expires_at"`
	RevokedAt *time.Time           `json:"revoked_at,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// GeneratedTokenView adds the bearer secret, returned only on generation.
type GeneratedTokenView struct {
	TokenView
	Token string `json:"token"`
}

// NewTokenView maps a token to its public representation.
func NewTokenView(token *authDomain.Token) TokenView {
	return TokenView{
		ID:        token.ID,
		Roles:     token.Roles.Strings(),
		Data:      token.Data,
		Active:    token.Active,
		ExpiresAt: token.ExpiresAt,
		RevokedAt: token.RevokedAt,
		CreatedAt: token.CreatedAt,
	}
}
