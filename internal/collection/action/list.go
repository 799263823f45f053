package action

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
	collectionSecurity "github.com/riotkit-org/backup-repository/internal/collection/security"
	"github.com/riotkit-org/backup-repository/internal/collection/usecase"
	"github.com/riotkit-org/backup-repository/internal/crud"
	"github.com/riotkit-org/backup-repository/internal/database"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// ListHandler lists collections visible to the acting token.
type ListHandler struct {
	manager usecase.CollectionManager
}

// NewListHandler creates a ListHandler.
func NewListHandler(manager usecase.CollectionManager) *ListHandler {
	return &ListHandler{manager: manager}
}

// Handle lists every collection for tokens allowed to see all of them, and the
// collections granted to the acting token otherwise.
func (h *ListHandler) Handle(
	ctx context.Context,
	form *ListForm,
	securityContext *collectionSecurity.ManagementContext,
) (*crud.Response, error) {
	filter := domain.ListFilter{
		Offset: database.PageOffset(form.Page, form.Limit),
		Limit:  form.Limit,
	}

	if !securityContext.CanListAllCollections() {
		if securityContext.ActorID() == uuid.Nil {
			return nil, apperrors.NewAuthorizationError("Current token does not allow to list collections")
		}
		filter.AllowedToken = securityContext.ActorID()
	}

	collections, err := h.manager.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]CollectionView, 0, len(collections))
	for _, collection := range collections {
		views = append(views, NewCollectionView(collection))
	}

	return crud.Success(map[string]any{
		"collections": views,
		"page":        form.Page,
		"limit":       form.Limit,
	}, http.StatusOK), nil
}
