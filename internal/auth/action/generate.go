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

// GenerateTokenHandler issues new tokens.
type GenerateTokenHandler struct {
	userManager usecase.UserManager
}

// NewGenerateTokenHandler creates a GenerateTokenHandler.
func NewGenerateTokenHandler(userManager usecase.UserManager) *GenerateTokenHandler {
	return &GenerateTokenHandler{userManager: userManager}
}

// Handle validates the form and issues a new token.
func (h *GenerateTokenHandler) Handle(
	ctx context.Context,
	form *GenerateTokenForm,
	securityContext *authSecurity.ManagementContext,
) (*crud.Response, error) {
	if !securityContext.CanGenerateNewToken() {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to generate tokens")
	}

	roles, err := authDomain.ParseRoles(form.Roles)
	if err != nil {
		return crud.WithValidationErrors(map[string]string{"roles": err.Error()}), nil
	}

	if !securityContext.CanGrantRoles(roles) {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to grant the administrator role")
	}

	input := &authDomain.GenerateTokenInput{
		Roles:     roles,
		Data:      form.Data,
		ExpiresAt: form.ExpiresAt,
	}

	if form.ID != "" {
		if !securityContext.CanCreateTokensWithPredictableIdentifiers() {
			return nil, apperrors.NewAuthorizationError(
				"Current token does not allow to create tokens with predictable identifiers",
			)
		}

		id, err := uuid.Parse(form.ID)
		if err != nil {
			return crud.WithValidationErrors(map[string]string{"id": "must be a valid UUID"}), nil
		}
		input.ID = id
	}

	output, err := h.userManager.Generate(ctx, input)
	if errors.Is(err, authDomain.ErrTokenIDTaken) {
		return crud.WithDomainError("Token id is already in use", "id", "id_taken", form.ID), nil
	}
	if err != nil {
		return nil, err
	}

	return crud.Success(GeneratedTokenView{
		TokenView: NewTokenView(output.Token),
		Token:     output.PlainToken,
	}, http.StatusCreated), nil
}
