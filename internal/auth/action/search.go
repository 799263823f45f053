package action

import (
	"context"
	"net/http"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	authSecurity "github.com/riotkit-org/backup-repository/internal/auth/security"
	"github.com/riotkit-org/backup-repository/internal/auth/usecase"
	"github.com/riotkit-org/backup-repository/internal/crud"
	"github.com/riotkit-org/backup-repository/internal/database"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// SearchTokensHandler lists tokens.
type SearchTokensHandler struct {
	userManager usecase.UserManager
}

// NewSearchTokensHandler creates a SearchTokensHandler.
func NewSearchTokensHandler(userManager usecase.UserManager) *SearchTokensHandler {
	return &SearchTokensHandler{userManager: userManager}
}

// Handle returns a page of tokens matching the form filters.
func (h *SearchTokensHandler) Handle(
	ctx context.Context,
	form *SearchTokensForm,
	securityContext *authSecurity.ManagementContext,
) (*crud.Response, error) {
	if !securityContext.CanSearchForTokens() {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to search for tokens")
	}

	filter := authDomain.SearchFilter{
		ActiveOnly: form.ActiveOnly,
		Offset:     database.PageOffset(form.Page, form.Limit),
		Limit:      form.Limit,
	}
	if form.Role != "" {
		role := authDomain.Role(form.Role)
		if !role.IsKnown() {
			return crud.WithValidationErrors(map[string]string{"role": "unknown role"}), nil
		}
		filter.Role = role
	}

	tokens, err := h.userManager.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]TokenView, 0, len(tokens))
	for _, token := range tokens {
		views = append(views, NewTokenView(token))
	}

	return crud.Success(map[string]any{
		"tokens": views,
		"page":   form.Page,
		"limit":  form.Limit,
	}, http.StatusOK), nil
}
