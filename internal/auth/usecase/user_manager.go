package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	authService "github.com/riotkit-org/backup-repository/internal/auth/service"
	"github.com/riotkit-org/backup-repository/internal/config"
	"github.com/riotkit-org/backup-repository/internal/database"
)

type userManager struct {
	config       *config.Config
	txManager    database.TxManager
	tokenRepo    TokenRepository
	tokenService authService.TokenService
	now          func() time.Time
}

// Generate issues a token. The existence check and the insert share a transaction
// so a predictable ID cannot be claimed twice.
func (u *userManager) Generate(
	ctx context.Context,
	input *authDomain.GenerateTokenInput,
) (*authDomain.GenerateTokenOutput, error) {
	plainToken, tokenHash, err := u.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := u.now()
	expiresAt := now.Add(u.config.AuthTokenExpiration)
	if input.ExpiresAt != nil {
		expiresAt = input.ExpiresAt.UTC()
	}

	token := &authDomain.Token{
		ID:        input.ID,
		TokenHash: tokenHash,
		Roles:     input.Roles,
		Data:      input.Data,
		Active:    true,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.Must(uuid.NewV7())
	}

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		if input.ID != uuid.Nil {
			_, err := u.tokenRepo.Get(ctx, input.ID)
			if err == nil {
				return authDomain.ErrTokenIDTaken
			}
			if !errors.Is(err, authDomain.ErrTokenNotFound) {
				return err
			}
		}
		return u.tokenRepo.Create(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	return &authDomain.GenerateTokenOutput{
		Token:      token,
		PlainToken: plainToken,
	}, nil
}

// Get retrieves a token by its ID.
func (u *userManager) Get(ctx context.Context, tokenID uuid.UUID) (*authDomain.Token, error) {
	return u.tokenRepo.Get(ctx, tokenID)
}

// Search returns tokens matching the filter.
func (u *userManager) Search(ctx context.Context, filter authDomain.SearchFilter) ([]*authDomain.Token, error) {
	return u.tokenRepo.Search(ctx, filter)
}

// Revoke writes through immediately. The change is visible to other requests once
// this returns, unless ctx carries a transaction the caller has not committed yet.
// The loaded copy is only updated after the storage accepted the revocation.
func (u *userManager) Revoke(ctx context.Context, token *authDomain.Token) error {
	if !token.Active {
		return authDomain.ErrTokenAlreadyInactive
	}
	now := u.now()
	if err := u.tokenRepo.Revoke(ctx, token.ID, now); err != nil {
		return err
	}
	return token.Revoke(now)
}

// Authenticate maps unknown, expired and revoked tokens to ErrInvalidToken so
// callers cannot tell them apart.
func (u *userManager) Authenticate(ctx context.Context, plainToken string) (*authDomain.Token, error) {
	token, err := u.tokenRepo.GetByTokenHash(ctx, u.tokenService.HashToken(plainToken))
	if err != nil {
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	if !token.IsUsable(u.now()) {
		return nil, authDomain.ErrInvalidToken
	}

	return token, nil
}

// NewUserManager creates a UserManager.
func NewUserManager(
	config *config.Config,
	txManager database.TxManager,
	tokenRepo TokenRepository,
	tokenService authService.TokenService,
) UserManager {
	return &userManager{
		config:       config,
		txManager:    txManager,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		now:          func() time.Time { return time.Now().UTC() },
	}
}
