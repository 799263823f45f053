package domain

import (
	"time"

	"github.com/google/uuid"
)

// StoredFile is the metadata of a file kept in the storage backend.
// The content lives under StorageKey.
type StoredFile struct {
	ID           uuid.UUID
	Filename     Filename
	ContentHash  string
	Size         int64
	MimeType     string
	Tags         []string
	Public       bool
	PasswordHash string
	UploadedBy   uuid.UUID
	CreatedAt    time.Time
}

// StorageKey is the object key of the content in the storage backend.
func (f *StoredFile) StorageKey() string {
	return f.ID.String()
}

// IsPasswordProtected reports whether viewing the file requires a password.
func (f *StoredFile) IsPasswordProtected() bool {
	return f.PasswordHash != ""
}

// IsUploadedBy reports whether the token uploaded the file.
func (f *StoredFile) IsUploadedBy(tokenID uuid.UUID) bool {
	return tokenID != uuid.Nil && f.UploadedBy == tokenID
}

// Upload describes a file about to be stored.
type Upload struct {
	Filename   Filename
	Tags       []string
	Public     bool
	Password   string
	UploadedBy uuid.UUID
	// Overwrite replaces an existing file of the same name instead of rejecting the upload.
	Overwrite bool
}

// ListFilter narrows a file listing. Zero fields do not filter.
type ListFilter struct {
	Tags       []string
	MimeTypes  []string
	UploadedBy uuid.UUID
	// Search matches a part of the filename.
	Search                   string
	ExcludePasswordProtected bool
	Offset                   int
	Limit                    int
}
