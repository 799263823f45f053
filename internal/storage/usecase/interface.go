// Package usecase implements storing, listing and reading files.
package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/storage/domain"
)

// FileRepository persists file metadata.
// Implementations must support transaction-aware operations via context propagation.
type FileRepository interface {
	Create(ctx context.Context, file *domain.StoredFile) error

	// Delete removes the metadata. Returns ErrFileNotFound if missing.
	Delete(ctx context.Context, fileID uuid.UUID) error

	// GetByFilename returns ErrFileNotFound if no file carries the name.
	GetByFilename(ctx context.Context, filename domain.Filename) (*domain.StoredFile, error)

	List(ctx context.Context, filter domain.ListFilter) ([]*domain.StoredFile, error)
}

// FileStorage keeps file contents under opaque keys.
type FileStorage interface {
	Write(ctx context.Context, key string, r io.Reader, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// PasswordHasher hashes file passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// UploadPolicy is consulted while the content streams in, once its type and size are known.
type UploadPolicy interface {
	IsMimeTypeAllowed(mimeType string) bool
	IsFileSizeAllowed(size int64) bool
}

// FileManager stores and reads files on behalf of action handlers.
// Rejected uploads are reported as *errors.ValidationError.
type FileManager interface {
	// Store streams content into the storage and commits its metadata. Nothing is
	// committed when the policy rejects the content.
	Store(ctx context.Context, upload *domain.Upload, content io.Reader, policy UploadPolicy) (*domain.StoredFile, error)

	GetByFilename(ctx context.Context, filename domain.Filename) (*domain.StoredFile, error)

	// Open returns the content of file. The caller must close it.
	Open(ctx context.Context, file *domain.StoredFile) (io.ReadCloser, error)

	List(ctx context.Context, filter domain.ListFilter) ([]*domain.StoredFile, error)
}
