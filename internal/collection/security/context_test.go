package security

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	"github.com/riotkit-org/backup-repository/internal/collection/domain"
)

func token(roles ...authDomain.Role) *authDomain.Token {
	return &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		Roles:     roles,
		Active:    true,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestManagementContext(t *testing.T) {
	factory := NewContextFactory()
	owner := token()
	owned := &domain.Collection{ID: uuid.Must(uuid.NewV7()), AllowedTokens: []uuid.UUID{owner.ID}}
	foreign := &domain.Collection{ID: uuid.Must(uuid.NewV7())}

	t.Run("no token denies everything", func(t *testing.T) {
		ctx := factory.CreateCollectionManagementContext(nil)

		assert.False(t, ctx.CanCreateCollection())
		assert.False(t, ctx.CanModifyCollection(owned))
		assert.False(t, ctx.CanViewCollection(owned))
		assert.False(t, ctx.CanListAllCollections())
		assert.False(t, ctx.CanDeleteCollection(owned))
	})

	t.Run("administrator overrides everything", func(t *testing.T) {
		ctx := factory.CreateCollectionManagementContext(token(authDomain.RoleAdministrator))

		assert.True(t, ctx.CanCreateCollection())
		assert.True(t, ctx.CanModifyCollection(foreign))
		assert.True(t, ctx.CanViewCollection(foreign))
		assert.True(t, ctx.CanListAllCollections())
		assert.True(t, ctx.CanDeleteCollection(foreign))
	})

	t.Run("allowed token manages own collection only", func(t *testing.T) {
		ctx := factory.CreateCollectionManagementContext(owner)

		assert.False(t, ctx.CanCreateCollection())
		assert.True(t, ctx.CanModifyCollection(owned))
		assert.True(t, ctx.CanViewCollection(owned))
		assert.False(t, ctx.CanModifyCollection(foreign))
		assert.False(t, ctx.CanViewCollection(foreign))
		assert.False(t, ctx.CanDeleteCollection(owned))
		assert.False(t, ctx.CanModifyCollection(nil))
	})

	t.Run("modify any", func(t *testing.T) {
		ctx := factory.CreateCollectionManagementContext(token(authDomain.RoleCollectionsModifyAny))

		assert.True(t, ctx.CanModifyCollection(foreign))
		assert.True(t, ctx.CanViewCollection(foreign))
		assert.False(t, ctx.CanListAllCollections())
	})

	t.Run("view all does not grant modification", func(t *testing.T) {
		ctx := factory.CreateCollectionManagementContext(token(authDomain.RoleCollectionsViewAll))

		assert.True(t, ctx.CanViewCollection(foreign))
		assert.True(t, ctx.CanListAllCollections())
		assert.False(t, ctx.CanModifyCollection(foreign))
	})

	t.Run("delete needs modification rights", func(t *testing.T) {
		deleter := token(authDomain.RoleCollectionsDeleteAllowed)
		ctx := factory.CreateCollectionManagementContext(deleter)
		mine := &domain.Collection{AllowedTokens: []uuid.UUID{deleter.ID}}

		assert.True(t, ctx.CanDeleteCollection(mine))
		assert.False(t, ctx.CanDeleteCollection(foreign))
	})

	t.Run("create role", func(t *testing.T) {
		ctx := factory.CreateCollectionManagementContext(token(authDomain.RoleCollectionsCreate))

		assert.True(t, ctx.CanCreateCollection())
		assert.NotEqual(t, uuid.Nil, ctx.ActorID())
	})
}
