package security

import (
	"github.com/google/uuid"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
)

// ListingRequest is the part of a listing form that affects authorization.
type ListingRequest interface {
	RequestsOnlyOwnFiles() bool
}

// ViewingRequest is the part of a viewing form that affects authorization.
type ViewingRequest interface {
	SuppliedPassword() string
}

// ContextFactory translates token roles into storage grants.
type ContextFactory struct {
	verifier PasswordVerifier
}

// NewContextFactory creates a ContextFactory verifying file passwords with verifier.
func NewContextFactory(verifier PasswordVerifier) *ContextFactory {
	return &ContextFactory{verifier: verifier}
}

// CreateUploadContext builds the context for token. A nil token yields a context that denies everything.
func (f *ContextFactory) CreateUploadContext(token *authDomain.Token) *UploadContext {
	if token == nil {
		return NewUploadContext(UploadGrants{}, authDomain.TokenData{}, false, uuid.Nil)
	}

	return NewUploadContext(
		UploadGrants{
			All:               token.Roles.Has(authDomain.RoleUploadAll),
			Images:            token.Roles.Has(authDomain.RoleUploadImages),
			Documents:         token.Roles.Has(authDomain.RoleUploadDocuments),
			Backups:           token.Roles.Has(authDomain.RoleUploadBackup),
			Overwrite:         token.Roles.Has(authDomain.RoleUploadAllowOverwriteFiles),
			EnforceNoPassword: token.Roles.Has(authDomain.RoleUploadEnforceNoPassword),
		},
		token.Data,
		token.IsAdministrator(),
		token.ID,
	)
}

// CreateListingContextFromTokenAndForm builds the listing context. Anonymous visitors get a
// context that denies listing.
func (f *ContextFactory) CreateListingContextFromTokenAndForm(
	token *authDomain.Token,
	form ListingRequest,
) *ReadContext {
	grants := ReadGrants{OnlyOwnFilesRequested: form != nil && form.RequestsOnlyOwnFiles()}
	if token == nil {
		return NewReadContext(grants, false, uuid.Nil, "", f.verifier)
	}

	grants.ViewAny = token.Roles.Has(authDomain.RoleViewAnyFile)
	grants.ViewPasswordProtected = token.Roles.Has(authDomain.RoleViewPasswordProtectedFiles)
	return NewReadContext(grants, token.IsAdministrator(), token.ID, "", f.verifier)
}

// CreateViewingContextFromTokenAndForm builds the context for viewing a single file.
// The token is optional: public files can be viewed anonymously.
func (f *ContextFactory) CreateViewingContextFromTokenAndForm(
	token *authDomain.Token,
	form ViewingRequest,
) *ReadContext {
	var password string
	if form != nil {
		password = form.SuppliedPassword()
	}

	if token == nil {
		return NewReadContext(ReadGrants{}, false, uuid.Nil, password, f.verifier)
	}

	grants := ReadGrants{
		ViewAny:               token.Roles.Has(authDomain.RoleViewAnyFile),
		ViewPasswordProtected: token.Roles.Has(authDomain.RoleViewPasswordProtectedFiles),
	}
	return NewReadContext(grants, token.IsAdministrator(), token.ID, password, f.verifier)
}
