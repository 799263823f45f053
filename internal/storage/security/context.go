// Package security answers authorization questions about storing and reading files.
package security

import (
	"github.com/google/uuid"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	"github.com/riotkit-org/backup-repository/internal/security"
	"github.com/riotkit-org/backup-repository/internal/storage/domain"
)

// UploadGrants are the role facts relevant to uploads.
type UploadGrants struct {
	All               bool
	Images            bool
	Documents         bool
	Backups           bool
	Overwrite         bool
	EnforceNoPassword bool
}

// UploadContext decides what the acting token may upload.
type UploadContext struct {
	security.Override
	grants      UploadGrants
	restriction authDomain.TokenData
	actorID     uuid.UUID
}

// NewUploadContext builds a context from precomputed grants and the token upload restrictions.
func NewUploadContext(
	grants UploadGrants,
	restriction authDomain.TokenData,
	administrator bool,
	actorID uuid.UUID,
) *UploadContext {
	return &UploadContext{
		Override:    security.NewOverride(administrator),
		grants:      grants,
		restriction: restriction,
		actorID:     actorID,
	}
}

// ActorID returns the id of the uploading token.
func (c *UploadContext) ActorID() uuid.UUID {
	return c.actorID
}

// CanUpload requires at least one upload role.
func (c *UploadContext) CanUpload() bool {
	return c.Allow(c.grants.All || c.grants.Images || c.grants.Documents || c.grants.Backups)
}

// IsMimeTypeAllowed checks the role covering the type class and the token whitelist.
func (c *UploadContext) IsMimeTypeAllowed(mimeType string) bool {
	return c.AllowFunc(func() bool {
		if !c.CanUpload() || !c.restriction.AllowsMimeType(mimeType) {
			return false
		}
		if c.grants.All {
			return true
		}

		switch domain.ClassifyMimeType(mimeType) {
		case domain.MimeClassImage:
			return c.grants.Images
		case domain.MimeClassDocument:
			return c.grants.Documents
		case domain.MimeClassBackup:
			return c.grants.Backups
		}
		return false
	})
}

// IsFileSizeAllowed checks the size against the token limit.
func (c *UploadContext) IsFileSizeAllowed(size int64) bool {
	return c.AllowFunc(func() bool {
		return c.CanUpload() && c.restriction.AllowsFileSize(size)
	})
}

// AreTagsAllowed requires every tag to be on the token whitelist.
func (c *UploadContext) AreTagsAllowed(tags []string) bool {
	return c.AllowFunc(func() bool {
		if !c.CanUpload() {
			return false
		}
		for _, tag := range tags {
			if !c.restriction.AllowsTag(tag) {
				return false
			}
		}
		return true
	})
}

// CanOverwriteFile allows replacing an existing file with the same name.
func (c *UploadContext) CanOverwriteFile() bool {
	return c.AllowFunc(func() bool {
		return c.CanUpload() && c.grants.Overwrite
	})
}

// IsPasswordAllowed rejects passwords for tokens enforcing password-less files.
func (c *UploadContext) IsPasswordAllowed(password string) bool {
	return c.AllowFunc(func() bool {
		return c.CanUpload() && (password == "" || !c.grants.EnforceNoPassword)
	})
}

// ReadGrants are the role facts relevant to listing and viewing files.
type ReadGrants struct {
	ViewAny               bool
	ViewPasswordProtected bool
	OnlyOwnFilesRequested bool
}

// PasswordVerifier compares a plain password with a stored hash.
type PasswordVerifier interface {
	Verify(password, hash string) bool
}

// ReadContext decides which files the acting token, or an anonymous visitor, may read.
type ReadContext struct {
	security.Override
	grants   ReadGrants
	actorID  uuid.UUID
	password string
	verifier PasswordVerifier
}

// NewReadContext builds a context. The password is the one supplied with the request, if any.
func NewReadContext(
	grants ReadGrants,
	administrator bool,
	actorID uuid.UUID,
	password string,
	verifier PasswordVerifier,
) *ReadContext {
	return &ReadContext{
		Override: security.NewOverride(administrator),
		grants:   grants,
		actorID:  actorID,
		password: password,
		verifier: verifier,
	}
}

// ActorID returns the id of the acting token, uuid.Nil for anonymous visitors.
func (c *ReadContext) ActorID() uuid.UUID {
	return c.actorID
}

// CanListAllFiles allows listing files regardless of who uploaded them.
func (c *ReadContext) CanListAllFiles() bool {
	return c.Allow(c.grants.ViewAny)
}

// CanListFiles allows listing every file, or the own files of an authenticated token that asked only for them.
func (c *ReadContext) CanListFiles() bool {
	return c.AllowFunc(func() bool {
		return c.CanListAllFiles() || (c.grants.OnlyOwnFilesRequested && c.actorID != uuid.Nil)
	})
}

// CanSeePasswordProtectedFiles allows reading protected files without knowing the password.
func (c *ReadContext) CanSeePasswordProtectedFiles() bool {
	return c.Allow(c.grants.ViewPasswordProtected)
}

// CanViewFile allows the uploader, and otherwise requires the password of a protected file
// and either a public file or the view-any role.
func (c *ReadContext) CanViewFile(file *domain.StoredFile) bool {
	return c.AllowFunc(func() bool {
		if file == nil {
			return false
		}
		if file.IsUploadedBy(c.actorID) {
			return true
		}
		if file.IsPasswordProtected() && !c.CanSeePasswordProtectedFiles() && !c.passwordMatches(file) {
			return false
		}
		return file.Public || c.grants.ViewAny
	})
}

func (c *ReadContext) passwordMatches(file *domain.StoredFile) bool {
	if c.password == "" || c.verifier == nil {
		return false
	}
	return c.verifier.Verify(c.password, file.PasswordHash)
}
