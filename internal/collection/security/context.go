// Package security answers authorization questions about backup collections.
package security

import (
	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
	"github.com/riotkit-org/backup-repository/internal/security"
)

// ManagementGrants are the role facts relevant to collection management.
type ManagementGrants struct {
	Create    bool
	ModifyAny bool
	ViewAll   bool
	Delete    bool
}

// ManagementContext decides what the acting token may do with collections.
type ManagementContext struct {
	security.Override
	grants  ManagementGrants
	actorID uuid.UUID
}

// NewManagementContext builds a context from precomputed grants.
func NewManagementContext(grants ManagementGrants, administrator bool, actorID uuid.UUID) *ManagementContext {
	return &ManagementContext{
		Override: security.NewOverride(administrator),
		grants:   grants,
		actorID:  actorID,
	}
}

// ActorID returns the id of the token the context was built for.
func (c *ManagementContext) ActorID() uuid.UUID {
	return c.actorID
}

// CanCreateCollection reports whether new collections may be created.
func (c *ManagementContext) CanCreateCollection() bool {
	return c.Allow(c.grants.Create)
}

// CanModifyCollection allows tokens with the modify-any role and tokens granted
// access to the collection.
func (c *ManagementContext) CanModifyCollection(collection *domain.Collection) bool {
	return c.AllowFunc(func() bool {
		if collection == nil {
			return false
		}
		return c.grants.ModifyAny || collection.IsTokenAllowed(c.actorID)
	})
}

// CanViewCollection allows tokens with the view-all role and tokens that may modify the collection.
func (c *ManagementContext) CanViewCollection(collection *domain.Collection) bool {
	return c.AllowFunc(func() bool {
		return c.grants.ViewAll || c.CanModifyCollection(collection)
	})
}

// CanListAllCollections reports whether collections of other tokens are listed too.
func (c *ManagementContext) CanListAllCollections() bool {
	return c.Allow(c.grants.ViewAll)
}

// CanDeleteCollection requires the delete role on a collection the token may modify.
func (c *ManagementContext) CanDeleteCollection(collection *domain.Collection) bool {
	return c.AllowFunc(func() bool {
		return c.grants.Delete && c.CanModifyCollection(collection)
	})
}
