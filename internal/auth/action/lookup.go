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

// LookupTokenHandler shows token details.
type LookupTokenHandler struct {
	userManager usecase.UserManager
}

// NewLookupTokenHandler creates a LookupTokenHandler.
func NewLookupTokenHandler(userManager usecase.UserManager) *LookupTokenHandler {
	return &LookupTokenHandler{userManager: userManager}
}

// Handle returns the token. Callers that may only see their own token get an
// authorization error for unknown ids too, so existence is not disclosed.
func (h *LookupTokenHandler) Handle(
	ctx context.Context,
	tokenID uuid.UUID,
	securityContext *authSecurity.ManagementContext,
) (*crud.Response, error) {
	token, err := h.userManager.Get(ctx, tokenID)
	if errors.Is(err, authDomain.ErrTokenNotFound) {
		if !securityContext.CanLookupAnyToken() {
			return nil, apperrors.NewAuthorizationError("Current token does not allow to lookup other tokens")
		}
		return crud.NotFound("Token not found"), nil
	}
	if err != nil {
		return nil, err
	}

	if !securityContext.CanLookupToken(token) {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to lookup other tokens")
	}

	return crud.Success(NewTokenView(token), http.StatusOK), nil
}
