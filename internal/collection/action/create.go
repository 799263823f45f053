package action

import (
	"context"
	"net/http"

	collectionSecurity "github.com/riotkit-org/backup-repository/internal/collection/security"
	"github.com/riotkit-org/backup-repository/internal/collection/usecase"
	"github.com/riotkit-org/backup-repository/internal/crud"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// CreateHandler creates collections. The creating token is granted access.
type CreateHandler struct {
	manager usecase.CollectionManager
}

// NewCreateHandler creates a CreateHandler.
func NewCreateHandler(manager usecase.CollectionManager) *CreateHandler {
	return &CreateHandler{manager: manager}
}

// Handle creates a collection owned by the acting token.
func (h *CreateHandler) Handle(
	ctx context.Context,
	form *CreateForm,
	securityContext *collectionSecurity.ManagementContext,
) (*crud.Response, error) {
	if !securityContext.CanCreateCollection() {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to create collections")
	}

	collection, err := h.manager.Create(ctx, &form.Input, securityContext.ActorID())
	if err != nil {
		if resp, ok := crud.FromDomainError(err); ok {
			return resp, nil
		}
		return nil, err
	}

	return crud.Success(NewCollectionView(collection), http.StatusCreated), nil
}
