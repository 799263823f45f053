package security

import (
	"github.com/google/uuid"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
)

// ContextFactory translates token roles into collection grants.
type ContextFactory struct{}

// NewContextFactory creates a ContextFactory.
func NewContextFactory() *ContextFactory {
	return &ContextFactory{}
}

// CreateCollectionManagementContext builds the context for token. A nil token
// yields a context that denies everything.
func (f *ContextFactory) CreateCollectionManagementContext(token *authDomain.Token) *ManagementContext {
	if token == nil {
		return NewManagementContext(ManagementGrants{}, false, uuid.Nil)
	}

	return NewManagementContext(
		ManagementGrants{
			Create:    token.Roles.Has(authDomain.RoleCollectionsCreate),
			ModifyAny: token.Roles.Has(authDomain.RoleCollectionsModifyAny),
			ViewAll:   token.Roles.Has(authDomain.RoleCollectionsViewAll),
			Delete:    token.Roles.Has(authDomain.RoleCollectionsDeleteAllowed),
		},
		token.IsAdministrator(),
		token.ID,
	)
}
