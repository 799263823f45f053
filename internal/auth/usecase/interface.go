// Package usecase implements token lifecycle management.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
)

// TokenRepository persists tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	// Create stores a new token.
	Create(ctx context.Context, token *authDomain.Token) error

	// Get retrieves a token by ID. Returns ErrTokenNotFound if not found.
	Get(ctx context.Context, tokenID uuid.UUID) (*authDomain.Token, error)

	// GetByTokenHash retrieves a token by the hash of its bearer secret.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)

	// Revoke deactivates an active token. It must be a single conditional update:
	// ErrTokenAlreadyInactive when the token was already inactive, ErrTokenNotFound
	// when it does not exist.
	Revoke(ctx context.Context, tokenID uuid.UUID, revokedAt time.Time) error

	// Search lists tokens matching the filter ordered by creation time.
	Search(ctx context.Context, filter authDomain.SearchFilter) ([]*authDomain.Token, error)
}

// UserManager manages the token lifecycle. It is used by action handlers, event
// commands and the console.
type UserManager interface {
	// Generate issues a new token. Returns ErrTokenIDTaken when a requested ID is in use.
	Generate(ctx context.Context, input *authDomain.GenerateTokenInput) (*authDomain.GenerateTokenOutput, error)

	// Get looks a token up by ID.
	Get(ctx context.Context, tokenID uuid.UUID) (*authDomain.Token, error)

	// Search lists tokens.
	Search(ctx context.Context, filter authDomain.SearchFilter) ([]*authDomain.Token, error)

	// Revoke deactivates the token and commits immediately. Revoking an inactive
	// token returns ErrTokenAlreadyInactive and changes nothing.
	Revoke(ctx context.Context, token *authDomain.Token) error

	// Authenticate resolves a bearer secret into a usable token.
	Authenticate(ctx context.Context, plainToken string) (*authDomain.Token, error)
}
