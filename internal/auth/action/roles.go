package action

import (
	"net/http"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	authSecurity "github.com/riotkit-org/backup-repository/internal/auth/security"
	"github.com/riotkit-org/backup-repository/internal/crud"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// ListRolesHandler exposes the role vocabulary on a technical endpoint.
type ListRolesHandler struct{}

// NewListRolesHandler creates a ListRolesHandler.
func NewListRolesHandler() *ListRolesHandler {
	return &ListRolesHandler{}
}

// Handle lists every known role.
func (h *ListRolesHandler) Handle(securityContext *authSecurity.ManagementContext) (*crud.Response, error) {
	if !securityContext.CanUseTechnicalEndpoints() {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to use technical endpoints")
	}

	return crud.Success(map[string]any{
		"roles": authDomain.Roles(authDomain.AvailableRoles()).Strings(),
	}, http.StatusOK), nil
}
