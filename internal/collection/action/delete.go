package action

import (
	"context"
	"net/http"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
	collectionSecurity "github.com/riotkit-org/backup-repository/internal/collection/security"
	"github.com/riotkit-org/backup-repository/internal/collection/usecase"
	"github.com/riotkit-org/backup-repository/internal/crud"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// DeleteHandler removes collections.
type DeleteHandler struct {
	manager usecase.CollectionManager
}

// NewDeleteHandler creates a DeleteHandler.
func NewDeleteHandler(manager usecase.CollectionManager) *DeleteHandler {
	return &DeleteHandler{manager: manager}
}

// Handle deletes the collection when the context allows it.
func (h *DeleteHandler) Handle(
	ctx context.Context,
	collection *domain.Collection,
	securityContext *collectionSecurity.ManagementContext,
) (*crud.Response, error) {
	if collection == nil {
		return crud.NotFound(""), nil
	}

	if !securityContext.CanDeleteCollection(collection) {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to delete this collection")
	}

	if err := h.manager.Delete(ctx, collection); err != nil {
		if resp, ok := crud.FromDomainError(err); ok {
			return resp, nil
		}
		return nil, err
	}

	return crud.Success(NewCollectionView(collection), http.StatusOK), nil
}
