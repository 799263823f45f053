package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// TokenData holds upload restrictions carried by a token. Empty lists mean "no restriction".
type TokenData struct {
	Tags               []string `json:"tags"`
	AllowedMimeTypes   []string `json:"allowed_mime_types"`
	MaxAllowedFileSize int64    `json:"max_allowed_file_size"`
}

// Token is a bearer credential. Only Active and RevokedAt change after issuance.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	Roles     Roles
	Data      TokenData
	Active    bool
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsAdministrator reports whether the token carries the administrator role.
func (t *Token) IsAdministrator() bool {
	return t != nil && t.Roles.Has(RoleAdministrator)
}

// IsUsable reports whether the token may authenticate requests at the given time.
func (t *Token) IsUsable(now time.Time) bool {
	return t != nil && t.Active && t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// Revoke deactivates the token. Revoking an inactive token returns ErrTokenAlreadyInactive
// and leaves it unchanged.
func (t *Token) Revoke(now time.Time) error {
	if !t.Active {
		return ErrTokenAlreadyInactive
	}
	t.Active = false
	t.RevokedAt = &now
	return nil
}

// AllowsTag reports whether files uploaded with this token may carry the tag.
func (d TokenData) AllowsTag(tag string) bool {
	return len(d.Tags) == 0 || slices.Contains(d.Tags, tag)
}

// AllowsMimeType reports whether the token whitelist accepts the mime type.
func (d TokenData) AllowsMimeType(mime string) bool {
	return len(d.AllowedMimeTypes) == 0 || slices.Contains(d.AllowedMimeTypes, mime)
}

// AllowsFileSize reports whether size fits the per-token limit. Zero means unlimited.
func (d TokenData) AllowsFileSize(size int64) bool {
	return d.MaxAllowedFileSize <= 0 || size <= d.MaxAllowedFileSize
}

// GenerateTokenInput describes a token to issue. A zero ID means "pick a new one".
type GenerateTokenInput struct {
	ID        uuid.UUID
	Roles     Roles
	Data      TokenData
	ExpiresAt *time.Time
}

// GenerateTokenOutput carries the issued token and its bearer secret, shown only once.
type GenerateTokenOutput struct {
	Token      *Token
	PlainToken string
}

// SearchFilter narrows a token search. A zero Role matches every token.
type SearchFilter struct {
	Role       Role
	ActiveOnly bool
	Offset     int
	Limit      int
}
