package action

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
	collectionSecurity "github.com/riotkit-org/backup-repository/internal/collection/security"
	"github.com/riotkit-org/backup-repository/internal/collection/usecase/mocks"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

func contextFor(grants collectionSecurity.ManagementGrants, actorID uuid.UUID) *collectionSecurity.ManagementContext {
	return collectionSecurity.NewManagementContext(grants, false, actorID)
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	var authErr *apperrors.AuthorizationError
	assert.True(t, errors.As(err, &authErr), "expected authorization error, got %v", err)
}

func TestCreateHandler_Handle(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.Must(uuid.NewV7())

	t.Run("denied without create role", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}

		resp, err := NewCreateHandler(manager).Handle(ctx, &CreateForm{}, contextFor(collectionSecurity.ManagementGrants{}, actorID))

		assert.Nil(t, resp)
		assertForbidden(t, err)
		manager.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("creates for the acting token", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}
		form := &CreateForm{Input: domain.CollectionInput{Name: "db"}}
		created := &domain.Collection{ID: uuid.Must(uuid.NewV7()), Name: "db", AllowedTokens: []uuid.UUID{actorID}}
		manager.On("Create", ctx, &form.Input, actorID).Return(created, nil).Once()

		resp, err := NewCreateHandler(manager).Handle(ctx, form,
			contextFor(collectionSecurity.ManagementGrants{Create: true}, actorID))

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.HTTPCode)
		assert.Equal(t, created.ID, resp.Data.(CollectionView).ID)
	})

	t.Run("mapping error becomes validation response", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}
		manager.On("Create", ctx, mock.Anything, actorID).
			Return(nil, &apperrors.MappingError{Errors: map[string]string{"strategy": "unknown strategy"}})

		resp, err := NewCreateHandler(manager).Handle(ctx, &CreateForm{},
			contextFor(collectionSecurity.ManagementGrants{Create: true}, actorID))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.HTTPCode)
		assert.Equal(t, "unknown strategy", resp.Errors["strategy"])
	})
}

func TestEditHandler_Handle(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.Must(uuid.NewV7())
	owned := &domain.Collection{ID: uuid.Must(uuid.NewV7()), AllowedTokens: []uuid.UUID{actorID}}

	t.Run("missing collection is reported before permissions", func(t *testing.T) {
		resp, err := NewEditHandler(&mocks.MockCollectionManager{}).Handle(ctx, &EditForm{},
			contextFor(collectionSecurity.ManagementGrants{}, uuid.Nil))

		require.NoError(t, err)
		assert.True(t, resp.IsNotFound())
	})

	t.Run("foreign collection is denied", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}
		foreign := &domain.Collection{ID: uuid.Must(uuid.NewV7())}

		resp, err := NewEditHandler(manager).Handle(ctx, &EditForm{Collection: foreign},
			contextFor(collectionSecurity.ManagementGrants{}, actorID))

		assert.Nil(t, resp)
		assertForbidden(t, err)
		manager.AssertNotCalled(t, "Edit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation error becomes domain error response", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}
		form := &EditForm{Collection: owned}
		manager.On("Edit", ctx, owned, &form.Input).Return(nil, &apperrors.ValidationError{
			Message: "too big",
			Field:   "max_one_version_size",
			Code:    "max_one_version_size_too_big",
		})

		resp, err := NewEditHandler(manager).Handle(ctx, form, contextFor(collectionSecurity.ManagementGrants{}, actorID))

		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "max_one_version_size_too_big", resp.Error.Code)
		assert.Equal(t, "max_one_version_size", resp.Error.Field)
	})

	t.Run("infrastructure errors propagate", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}
		failure := errors.New("db down")
		manager.On("Edit", ctx, owned, mock.Anything).Return(nil, failure)

		resp, err := NewEditHandler(manager).Handle(ctx, &EditForm{Collection: owned},
			contextFor(collectionSecurity.ManagementGrants{}, actorID))

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, failure)
	})

	t.Run("administrator edits any collection", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}
		foreign := &domain.Collection{ID: uuid.Must(uuid.NewV7())}
		manager.On("Edit", ctx, foreign, mock.Anything).Return(foreign, nil)
		admin := collectionSecurity.NewManagementContext(collectionSecurity.ManagementGrants{}, true, uuid.Nil)

		resp, err := NewEditHandler(manager).Handle(ctx, &EditForm{Collection: foreign}, admin)

		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())
	})
}

func TestFetchHandler_Handle(t *testing.T) {
	actorID := uuid.Must(uuid.NewV7())
	handler := NewFetchHandler()

	resp, err := handler.Handle(nil, contextFor(collectionSecurity.ManagementGrants{}, actorID))
	require.NoError(t, err)
	assert.True(t, resp.IsNotFound())

	foreign := &domain.Collection{ID: uuid.Must(uuid.NewV7())}
	_, err = handler.Handle(foreign, contextFor(collectionSecurity.ManagementGrants{}, actorID))
	assertForbidden(t, err)

	resp, err = handler.Handle(foreign, contextFor(collectionSecurity.ManagementGrants{ViewAll: true}, actorID))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{}, resp.Data.(CollectionView).AllowedTokens)
}

func TestListHandler_Handle(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.Must(uuid.NewV7())

	t.Run("restricted to granted collections", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}
		manager.On("List", ctx, domain.ListFilter{AllowedToken: actorID, Offset: 0, Limit: 20}).
			Return([]*domain.Collection{}, nil).Once()

		resp, err := NewListHandler(manager).Handle(ctx, &ListForm{Page: 1, Limit: 20},
			contextFor(collectionSecurity.ManagementGrants{}, actorID))

		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())
		manager.AssertExpectations(t)
	})

	t.Run("view all lists everything", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}
		manager.On("List", ctx, domain.ListFilter{Offset: 10, Limit: 10}).
			Return([]*domain.Collection{{ID: uuid.Must(uuid.NewV7())}}, nil).Once()

		resp, err := NewListHandler(manager).Handle(ctx, &ListForm{Page: 2, Limit: 10},
			contextFor(collectionSecurity.ManagementGrants{ViewAll: true}, actorID))

		require.NoError(t, err)
		assert.Len(t, resp.Data.(map[string]any)["collections"], 1)
	})

	t.Run("anonymous is denied", func(t *testing.T) {
		_, err := NewListHandler(&mocks.MockCollectionManager{}).Handle(ctx, &ListForm{Page: 1, Limit: 20},
			contextFor(collectionSecurity.ManagementGrants{}, uuid.Nil))

		assertForbidden(t, err)
	})
}

func TestDeleteHandler_Handle(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.Must(uuid.NewV7())
	owned := &domain.Collection{ID: uuid.Must(uuid.NewV7()), AllowedTokens: []uuid.UUID{actorID}}

	t.Run("requires delete role", func(t *testing.T) {
		_, err := NewDeleteHandler(&mocks.MockCollectionManager{}).Handle(ctx, owned,
			contextFor(collectionSecurity.ManagementGrants{}, actorID))

		assertForbidden(t, err)
	})

	t.Run("deletes", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}
		manager.On("Delete", ctx, owned).Return(nil).Once()

		resp, err := NewDeleteHandler(manager).Handle(ctx, owned,
			contextFor(collectionSecurity.ManagementGrants{Delete: true}, actorID))

		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())
	})

	t.Run("concurrently removed", func(t *testing.T) {
		manager := &mocks.MockCollectionManager{}
		manager.On("Delete", ctx, owned).Return(domain.ErrCollectionNotFound).Once()

		resp, err := NewDeleteHandler(manager).Handle(ctx, owned,
			contextFor(collectionSecurity.ManagementGrants{Delete: true}, actorID))

		require.NoError(t, err)
		assert.True(t, resp.IsNotFound())
	})
}
