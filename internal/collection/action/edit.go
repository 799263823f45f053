package action

import (
	"context"
	"net/http"

	collectionSecurity "github.com/riotkit-org/backup-repository/internal/collection/security"
	"github.com/riotkit-org/backup-repository/internal/collection/usecase"
	"github.com/riotkit-org/backup-repository/internal/crud"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// EditHandler changes collection settings.
type EditHandler struct {
	manager usecase.CollectionManager
}

// NewEditHandler creates an EditHandler.
func NewEditHandler(manager usecase.CollectionManager) *EditHandler {
	return &EditHandler{manager: manager}
}

// Handle reports a missing collection before checking permissions. Mapping and
// validation failures become error responses.
func (h *EditHandler) Handle(
	ctx context.Context,
	form *EditForm,
	securityContext *collectionSecurity.ManagementContext,
) (*crud.Response, error) {
	if form.Collection == nil {
		return crud.NotFound(""), nil
	}

	if !securityContext.CanModifyCollection(form.Collection) {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to modify this collection")
	}

	collection, err := h.manager.Edit(ctx, form.Collection, &form.Input)
	if err != nil {
		if resp, ok := crud.FromDomainError(err); ok {
			return resp, nil
		}
		return nil, err
	}

	return crud.Success(NewCollectionView(collection), http.StatusOK), nil
}
