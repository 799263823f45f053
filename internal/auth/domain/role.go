// Package domain defines the authentication domain: tokens and the closed role vocabulary.
package domain

import (
	"fmt"
	"slices"
)

// Role is a named capability grant attached to a token.
type Role string

const (
	// RoleAdministrator overrides every other role.
	RoleAdministrator Role = "security.administrator"

	RoleAuthenticationLookup      Role = "security.authentication_lookup"
	RoleSearchForTokens           Role = "security.search_for_tokens"
	RoleGenerateTokens            Role = "security.generate_tokens"
	RoleUseTechnicalEndpoints     Role = "security.use_technical_endpoints"
	RoleRevokeTokens              Role = "security.revoke_tokens"
	RoleCreatePredictableTokenIDs Role = "security.create_predictable_token_ids"

	RoleUploadAll       Role = "upload.all"
	RoleUploadImages    Role = "upload.images"
	RoleUploadDocuments Role = "upload.documents"
	RoleUploadBackup    Role = "upload.backup"

	// RoleUploadOnlyOnceSuccessful revokes the token after its first successful upload.
	RoleUploadOnlyOnceSuccessful  Role = "upload.only_once_successful"
	RoleUploadAllowOverwriteFiles Role = "upload.allow_overwrite_files"
	RoleUploadEnforceNoPassword   Role = "upload.enforce_no_password"

	RoleViewAnyFile                Role = "view.any_file"
	RoleViewPasswordProtectedFiles Role = "view.can_see_password_protected_files"

	RoleCollectionsCreate        Role = "collections.create_new"
	RoleCollectionsModifyAny     Role = "collections.modify_any_collection"
	RoleCollectionsViewAll       Role = "collections.view_all_collections"
	RoleCollectionsDeleteAllowed Role = "collections.delete_allowed_collections"
)

var vocabulary = []Role{
	RoleAdministrator,
	RoleAuthenticationLookup,
	RoleSearchForTokens,
	RoleGenerateTokens,
	RoleUseTechnicalEndpoints,
	RoleRevokeTokens,
	RoleCreatePredictableTokenIDs,
	RoleUploadAll,
	RoleUploadImages,
	RoleUploadDocuments,
	RoleUploadBackup,
	RoleUploadOnlyOnceSuccessful,
	RoleUploadAllowOverwriteFiles,
	RoleUploadEnforceNoPassword,
	RoleViewAnyFile,
	RoleViewPasswordProtectedFiles,
	RoleCollectionsCreate,
	RoleCollectionsModifyAny,
	RoleCollectionsViewAll,
	RoleCollectionsDeleteAllowed,
}

// AvailableRoles returns the complete role vocabulary.
func AvailableRoles() []Role {
	return slices.Clone(vocabulary)
}

// IsKnown reports whether the role belongs to the vocabulary.
func (r Role) IsKnown() bool {
	return slices.Contains(vocabulary, r)
}

// Roles is the set of roles carried by a token.
type Roles []Role

// ParseRoles converts raw role names, rejecting unknown ones and dropping duplicates.
func ParseRoles(names []string) (Roles, error) {
	roles := make(Roles, 0, len(names))
	for _, name := range names {
		role := Role(name)
		if !role.IsKnown() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRole, name)
		}
		if !roles.Has(role) {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

// Has reports whether the set contains role.
func (r Roles) Has(role Role) bool {
	return slices.Contains(r, role)
}

// HasAny reports whether the set contains at least one of roles.
func (r Roles) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if r.Has(role) {
			return true
		}
	}
	return false
}

// Strings returns the role names.
func (r Roles) Strings() []string {
	names := make([]string, len(r))
	for i, role := range r {
		names[i] = string(role)
	}
	return names
}
