package security

import (
	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/auth/domain"
)

// ContextFactory translates token roles into token management grants.
type ContextFactory struct{}

// NewContextFactory creates a ContextFactory.
func NewContextFactory() *ContextFactory {
	return &ContextFactory{}
}

// CreateManagementContext builds the context for token. A nil token yields a
// context that denies everything.
func (f *ContextFactory) CreateManagementContext(token *domain.Token) *ManagementContext {
	if token == nil {
		return NewManagementContext(ManagementGrants{}, false, uuid.Nil)
	}

	return NewManagementContext(
		ManagementGrants{
			Lookup:                token.Roles.Has(domain.RoleAuthenticationLookup),
			Search:                token.Roles.Has(domain.RoleSearchForTokens),
			Generate:              token.Roles.Has(domain.RoleGenerateTokens),
			UseTechnicalEndpoints: token.Roles.Has(domain.RoleUseTechnicalEndpoints),
			Revoke:                token.Roles.Has(domain.RoleRevokeTokens),
			CreatePredictableIDs:  token.Roles.Has(domain.RoleCreatePredictableTokenIDs),
		},
		token.IsAdministrator(),
		token.ID,
	)
}

// CreateShellContext builds an administrator context for trusted console commands.
func (f *ContextFactory) CreateShellContext() *ManagementContext {
	return NewManagementContext(ManagementGrants{}, true, uuid.Nil)
}
