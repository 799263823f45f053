// Package action implements the file storage operations.
package action

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/storage/domain"
)

// UploadForm carries the attributes shared by every upload flavor.
type UploadForm struct {
	Filename string
	Tags     []string
	Public   bool
	Password string
}

// UploadByURLForm asks the server to download the file from URL.
// An empty filename is taken from the last URL path segment.
type UploadByURLForm struct {
	UploadForm
	URL string
}

// UploadByPostForm carries the file content in the request body.
type UploadByPostForm struct {
	UploadForm
	Content io.Reader
}

// FilesListingForm is a parsed listing request.
type FilesListingForm struct {
	Tags      []string
	MimeTypes []string
	Search    string
	OnlyMine  bool
	Page      int
	Limit     int
}

// RequestsOnlyOwnFiles implements security.ListingForm.
func (f *FilesListingForm) RequestsOnlyOwnFiles() bool {
	return f != nil && f.OnlyMine
}

// ViewFileForm names the file to read. Password unlocks protected files.
type ViewFileForm struct {
	Filename string
	Password string
}

// SuppliedPassword implements security.PasswordForm.
func (f *ViewFileForm) SuppliedPassword() string {
	if f == nil {
		return ""
	}
	return f.Password
}

// FileView is the public representation of a stored file.
type FileView struct {
	ID                uuid.UUID `json:"id"`
	Filename          string    `json:"filename"`
	ContentHash       string    `json:"content_hash"`
	Size              int64     `json:"size"`
	MimeType          string    `json:"mime_type"`
	Tags              []string  `json:"tags"`
	Public            bool      `json:"public"`
	PasswordProtected bool      `json:"password_protected"`
	UploadedBy        uuid.UUID `json:"uploaded_by"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewFileView converts a stored file into its response representation.
func NewFileView(file *domain.StoredFile) FileView {
	tags := file.Tags
	if tags == nil {
		tags = []string{}
	}
	return FileView{
		ID:                file.ID,
		Filename:          file.Filename.String(),
		ContentHash:       file.ContentHash,
		Size:              file.Size,
		MimeType:          file.MimeType,
		Tags:              tags,
		Public:            file.Public,
		PasswordProtected: file.IsPasswordProtected(),
		UploadedBy:        file.UploadedBy,
		CreatedAt:         file.CreatedAt,
	}
}

// FileDownload is the success payload of viewing a file. The transport streams
// Content and must close it.
type FileDownload struct {
	File    FileView
	Content io.ReadCloser `json:"-"`
}
