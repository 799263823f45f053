package action

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	authSecurity "github.com/riotkit-org/backup-repository/internal/auth/security"
	"github.com/riotkit-org/backup-repository/internal/auth/usecase"
	"github.com/riotkit-org/backup-repository/internal/crud"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// RevokeTokenHandler deactivates tokens.
type RevokeTokenHandler struct {
	userManager usecase.UserManager
}

// NewRevokeTokenHandler creates a RevokeTokenHandler.
func NewRevokeTokenHandler(userManager usecase.UserManager) *RevokeTokenHandler {
	return &RevokeTokenHandler{userManager: userManager}
}

// Handle revokes the token. Revoking an inactive token is reported as a stable
// domain error and changes nothing.
func (h *RevokeTokenHandler) Handle(
	ctx context.Context,
	tokenID uuid.UUID,
	securityContext *authSecurity.ManagementContext,
) (*crud.Response, error) {
	token, err := h.userManager.Get(ctx, tokenID)
	if errors.Is(err, authDomain.ErrTokenNotFound) {
		if !securityContext.CanRevokeTokens() {
			return nil, apperrors.NewAuthorizationError("Current token does not allow to revoke tokens")
		}
		return crud.NotFound("Token not found"), nil
	}
	if err != nil {
		return nil, err
	}

	if !securityContext.CanRevokeToken(token) {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to revoke this token")
	}

	err = h.userManager.Revoke(ctx, token)
	if errors.Is(err, authDomain.ErrTokenAlreadyInactive) {
		return crud.WithDomainError("Token is already inactive", "id", "token_inactive", token.ID), nil
	}
	if err != nil {
		return nil, err
	}

	return crud.Success(NewTokenView(token), http.StatusOK), nil
}
