package action

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	authSecurity "github.com/riotkit-org/backup-repository/internal/auth/security"
	"github.com/riotkit-org/backup-repository/internal/auth/usecase/mocks"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

func contextWith(grants authSecurity.ManagementGrants) *authSecurity.ManagementContext {
	return authSecurity.NewManagementContext(grants, false, uuid.Must(uuid.NewV7()))
}

func adminContext() *authSecurity.ManagementContext {
	return authSecurity.NewManagementContext(authSecurity.ManagementGrants{}, true, uuid.Must(uuid.NewV7()))
}

func newToken(roles ...authDomain.Role) *authDomain.Token {
	now := time.Now().UTC()
	return &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		Roles:     roles,
		Active:    true,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	var authErr *apperrors.AuthorizationError
	assert.True(t, errors.As(err, &authErr), "expected authorization error, got %v", err)
}

func TestGenerateTokenHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("denies without generate grant", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewGenerateTokenHandler(manager)

		resp, err := handler.Handle(ctx, &GenerateTokenForm{Roles: []string{"upload.all"}}, contextWith(authSecurity.ManagementGrants{}))

		assert.Nil(t, resp)
		assertForbidden(t, err)
		manager.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewGenerateTokenHandler(manager)
		sc := contextWith(authSecurity.ManagementGrants{Generate: true})

		resp, err := handler.Handle(ctx, &GenerateTokenForm{Roles: []string{"launch.rockets"}}, sc)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.HTTPCode)
		assert.Contains(t, resp.Errors, "roles")
	})

	t.Run("non-administrator cannot grant administrator role", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewGenerateTokenHandler(manager)
		sc := contextWith(authSecurity.ManagementGrants{Generate: true})

		resp, err := handler.Handle(ctx, &GenerateTokenForm{Roles: []string{string(authDomain.RoleAdministrator)}}, sc)

		assert.Nil(t, resp)
		assertForbidden(t, err)
	})

	t.Run("predictable id requires dedicated grant", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewGenerateTokenHandler(manager)
		sc := contextWith(authSecurity.ManagementGrants{Generate: true})

		resp, err := handler.Handle(ctx, &GenerateTokenForm{
			ID:    uuid.Must(uuid.NewV7()).String(),
			Roles: []string{string(authDomain.RoleUploadAll)},
		}, sc)

		assert.Nil(t, resp)
		assertForbidden(t, err)
	})

	t.Run("rejects malformed predictable id", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewGenerateTokenHandler(manager)
		sc := contextWith(authSecurity.ManagementGrants{Generate: true, CreatePredictableIDs: true})

		resp, err := handler.Handle(ctx, &GenerateTokenForm{ID: "not-a-uuid"}, sc)

		require.NoError(t, err)
		assert.Equal(t, "must be a valid UUID", resp.Errors["id"])
	})

	t.Run("reports taken id as domain error", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewGenerateTokenHandler(manager)
		id := uuid.Must(uuid.NewV7())

		manager.On("Generate", ctx, mock.MatchedBy(func(in *authDomain.GenerateTokenInput) bool {
			return in.ID == id
		})).Return(nil, authDomain.ErrTokenIDTaken)

		resp, err := handler.Handle(ctx, &GenerateTokenForm{ID: id.String()}, adminContext())

		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "id_taken", resp.Error.Code)
	})

	t.Run("returns plain token once", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewGenerateTokenHandler(manager)
		sc := contextWith(authSecurity.ManagementGrants{Generate: true})
		token := newToken(authDomain.RoleUploadAll)

		manager.On("Generate", ctx, mock.MatchedBy(func(in *authDomain.GenerateTokenInput) bool {
			return in.ID == uuid.Nil && in.Roles.Has(authDomain.RoleUploadAll)
		})).Return(&authDomain.GenerateTokenOutput{Token: token, PlainToken: "brt_secret"}, nil)

		resp, err := handler.Handle(ctx, &GenerateTokenForm{Roles: []string{string(authDomain.RoleUploadAll)}}, sc)

		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())
		assert.Equal(t, http.StatusCreated, resp.HTTPCode)
		view := resp.Data.(GeneratedTokenView)
		assert.Equal(t, "brt_secret", view.Token)
		assert.Equal(t, token.ID, view.ID)
		manager.AssertExpectations(t)
	})

	t.Run("propagates infrastructure errors", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewGenerateTokenHandler(manager)
		failure := errors.New("db down")
		manager.On("Generate", ctx, mock.Anything).Return(nil, failure)

		resp, err := handler.Handle(ctx, &GenerateTokenForm{}, adminContext())

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, failure)
	})
}

func TestLookupTokenHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("own token without lookup grant", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewLookupTokenHandler(manager)
		token := newToken(authDomain.RoleUploadAll)
		sc := authSecurity.NewManagementContext(authSecurity.ManagementGrants{}, false, token.ID)

		manager.On("Get", ctx, token.ID).Return(token, nil)

		resp, err := handler.Handle(ctx, token.ID, sc)

		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())
		assert.Equal(t, token.ID, resp.Data.(TokenView).ID)
	})

	t.Run("other token without lookup grant", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewLookupTokenHandler(manager)
		token := newToken()
		manager.On("Get", ctx, token.ID).Return(token, nil)

		resp, err := handler.Handle(ctx, token.ID, contextWith(authSecurity.ManagementGrants{}))

		assert.Nil(t, resp)
		assertForbidden(t, err)
	})

	t.Run("missing token with lookup grant", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewLookupTokenHandler(manager)
		id := uuid.Must(uuid.NewV7())
		manager.On("Get", ctx, id).Return(nil, authDomain.ErrTokenNotFound)

		resp, err := handler.Handle(ctx, id, contextWith(authSecurity.ManagementGrants{Lookup: true}))

		require.NoError(t, err)
		assert.True(t, resp.IsNotFound())
	})

	t.Run("missing token without lookup grant", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewLookupTokenHandler(manager)
		id := uuid.Must(uuid.NewV7())
		manager.On("Get", ctx, id).Return(nil, authDomain.ErrTokenNotFound)

		resp, err := handler.Handle(ctx, id, contextWith(authSecurity.ManagementGrants{}))

		assert.Nil(t, resp)
		assertForbidden(t, err)
	})
}

func TestSearchTokensHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("search needs lookup too", func(t *testing.T) {
		handler := NewSearchTokensHandler(&mocks.MockUserManager{})

		resp, err := handler.Handle(ctx, &SearchTokensForm{Page: 1, Limit: 20}, contextWith(authSecurity.ManagementGrants{Search: true}))

		assert.Nil(t, resp)
		assertForbidden(t, err)
	})

	t.Run("rejects unknown role filter", func(t *testing.T) {
		handler := NewSearchTokensHandler(&mocks.MockUserManager{})
		sc := contextWith(authSecurity.ManagementGrants{Search: true, Lookup: true})

		resp, err := handler.Handle(ctx, &SearchTokensForm{Role: "nope", Page: 1, Limit: 20}, sc)

		require.NoError(t, err)
		assert.Contains(t, resp.Errors, "role")
	})

	t.Run("translates page into offset", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		handler := NewSearchTokensHandler(manager)
		sc := contextWith(authSecurity.ManagementGrants{Search: true, Lookup: true})
		tokens := []*authDomain.Token{newToken(authDomain.RoleUploadBackup)}

		manager.On("Search", ctx, authDomain.SearchFilter{
			Role:       authDomain.RoleUploadBackup,
			ActiveOnly: true,
			Offset:     20,
			Limit:      10,
		}).Return(tokens, nil)

		resp, err := handler.Handle(ctx, &SearchTokensForm{
			Role:       string(authDomain.RoleUploadBackup),
			ActiveOnly: true,
			Page:       3,
			Limit:      10,
		}, sc)

		require.NoError(t, err)
		data := resp.Data.(map[string]any)
		assert.Len(t, data["tokens"], 1)
		manager.AssertExpectations(t)
	})
}

func TestRevokeTokenHandler_Handle(t *testing.T) {
	ctx := context.Background()
	revoker := authSecurity.ManagementGrants{Revoke: true}

	t.Run("missing token", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		id := uuid.Must(uuid.NewV7())
		manager.On("Get", ctx, id).Return(nil, authDomain.ErrTokenNotFound)

		resp, err := NewRevokeTokenHandler(manager).Handle(ctx, id, contextWith(revoker))

		require.NoError(t, err)
		assert.True(t, resp.IsNotFound())
	})

	t.Run("missing token without revoke grant", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		id := uuid.Must(uuid.NewV7())
		manager.On("Get", ctx, id).Return(nil, authDomain.ErrTokenNotFound)

		resp, err := NewRevokeTokenHandler(manager).Handle(ctx, id,
			contextWith(authSecurity.ManagementGrants{Lookup: true}))

		assert.Nil(t, resp)
		assertForbidden(t, err)
	})

	t.Run("cannot revoke administrator token", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		target := newToken(authDomain.RoleAdministrator)
		manager.On("Get", ctx, target.ID).Return(target, nil)

		resp, err := NewRevokeTokenHandler(manager).Handle(ctx, target.ID, contextWith(revoker))

		assert.Nil(t, resp)
		assertForbidden(t, err)
		manager.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything)
	})

	t.Run("administrator revokes administrator token", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		target := newToken(authDomain.RoleAdministrator)
		manager.On("Get", ctx, target.ID).Return(target, nil)
		manager.On("Revoke", ctx, target).Return(nil)

		resp, err := NewRevokeTokenHandler(manager).Handle(ctx, target.ID, adminContext())

		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())
	})

	t.Run("already inactive", func(t *testing.T) {
		manager := &mocks.MockUserManager{}
		target := newToken(authDomain.RoleUploadAll)
		manager.On("Get", ctx, target.ID).Return(target, nil)
		manager.On("Revoke", ctx, target).Return(authDomain.ErrTokenAlreadyInactive)

		resp, err := NewRevokeTokenHandler(manager).Handle(ctx, target.ID, contextWith(revoker))

		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "token_inactive", resp.Error.Code)
	})
}

func TestListRolesHandler_Handle(t *testing.T) {
	handler := NewListRolesHandler()

	_, err := handler.Handle(contextWith(authSecurity.ManagementGrants{}))
	assertForbidden(t, err)

	resp, err := handler.Handle(contextWith(authSecurity.ManagementGrants{UseTechnicalEndpoints: true}))
	require.NoError(t, err)
	roles := resp.Data.(map[string]any)["roles"].([]string)
	assert.Contains(t, roles, string(authDomain.RoleUploadOnlyOnceSuccessful))
	assert.Len(t, roles, len(authDomain.AvailableRoles()))
}
