package action

import (
	"net/http"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
	collectionSecurity "github.com/riotkit-org/backup-repository/internal/collection/security"
	"github.com/riotkit-org/backup-repository/internal/crud"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// FetchHandler shows a single collection.
type FetchHandler struct{}

// NewFetchHandler creates a FetchHandler.
func NewFetchHandler() *FetchHandler {
	return &FetchHandler{}
}

// Handle returns the collection when the context may view it.
func (h *FetchHandler) Handle(
	collection *domain.Collection,
	securityContext *collectionSecurity.ManagementContext,
) (*crud.Response, error) {
	if collection == nil {
		return crud.NotFound(""), nil
	}

	if !securityContext.CanViewCollection(collection) {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to view this collection")
	}

	return crud.Success(NewCollectionView(collection), http.StatusOK), nil
}
