// Package security answers authorization questions about token management.
package security

import (
	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/auth/domain"
	"github.com/riotkit-org/backup-repository/internal/security"
)

// ManagementGrants are the role facts relevant to token management.
type ManagementGrants struct {
	Lookup                bool
	Search                bool
	Generate              bool
	UseTechnicalEndpoints bool
	Revoke                bool
	CreatePredictableIDs  bool
}

// ManagementContext decides what the acting token may do with other tokens.
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

// CanLookupAnyToken reports whether any token may be looked up.
func (c *ManagementContext) CanLookupAnyToken() bool {
	return c.Allow(c.grants.Lookup)
}

// CanLookupToken allows looking up any token, or the acting token itself.
func (c *ManagementContext) CanLookupToken(target *domain.Token) bool {
	return c.AllowFunc(func() bool {
		if c.CanLookupAnyToken() {
			return true
		}
		return target != nil && c.actorID != uuid.Nil && target.ID == c.actorID
	})
}

// CanSearchForTokens requires the lookup capability too.
func (c *ManagementContext) CanSearchForTokens() bool {
	return c.AllowFunc(func() bool {
		return c.CanLookupAnyToken() && c.grants.Search
	})
}

// CanGenerateNewToken reports whether new tokens may be issued.
func (c *ManagementContext) CanGenerateNewToken() bool {
	return c.Allow(c.grants.Generate)
}

// CanGrantRoles denies issuing administrator tokens to non-administrators.
func (c *ManagementContext) CanGrantRoles(roles domain.Roles) bool {
	return c.AllowFunc(func() bool {
		return c.CanGenerateNewToken() && !roles.Has(domain.RoleAdministrator)
	})
}

// CanUseTechnicalEndpoints guards the routes listing roles and other internals.
func (c *ManagementContext) CanUseTechnicalEndpoints() bool {
	return c.Allow(c.grants.UseTechnicalEndpoints)
}

// CanRevokeTokens reports whether the token may revoke tokens at all.
func (c *ManagementContext) CanRevokeTokens() bool {
	return c.Allow(c.grants.Revoke)
}

// CanRevokeToken never lets a non-administrator revoke an administrator token.
func (c *ManagementContext) CanRevokeToken(target *domain.Token) bool {
	return c.AllowFunc(func() bool {
		if target == nil || target.IsAdministrator() {
			return false
		}
		return c.CanRevokeTokens()
	})
}

// CanCreateTokensWithPredictableIdentifiers allows choosing the ID of a generated token.
func (c *ManagementContext) CanCreateTokensWithPredictableIdentifiers() bool {
	return c.AllowFunc(func() bool {
		return c.CanGenerateNewToken() && c.grants.CreatePredictableIDs
	})
}
