package domain

import (
	"github.com/riotkit-org/backup-repository/internal/errors"
)

// Storage errors.
var (
	ErrFileNotFound = errors.Wrap(errors.ErrNotFound, "file not found")

	// ErrFileContentMissing means metadata exists but the storage backend lost the content.
	ErrFileContentMissing = errors.New("file content is missing in the storage")

	ErrInvalidFilename = errors.Wrap(errors.ErrInvalidInput, "invalid filename")
)

// Rejection codes carried by upload validation errors.
const (
	CodeFileExists         = "file_exists"
	CodeMimeTypeNotAllowed = "mime_type_not_allowed"
	CodeFileTooBig         = "file_too_big"
	CodeTagsNotAllowed     = "tags_not_allowed"
	CodePasswordNotAllowed = "password_not_allowed"
	CodeSourceNotReachable = "source_not_reachable"
	CodeEmptyFile          = "empty_file"
)

// NewFileExistsError reports a filename collision. The existing file is referenced.
func NewFileExistsError(existing *StoredFile) *errors.ValidationError {
	return &errors.ValidationError{
		Message:   "File with the same name already exists",
		Field:     "filename",
		Code:      CodeFileExists,
		Reference: existing.Filename.String(),
	}
}

// NewMimeTypeNotAllowedError reports content of a type the uploader may not store.
func NewMimeTypeNotAllowedError(mimeType string) *errors.ValidationError {
	return &errors.ValidationError{
		Message:   "File type is not allowed",
		Field:     "mime_type",
		Code:      CodeMimeTypeNotAllowed,
		Reference: mimeType,
	}
}

// NewFileTooBigError reports content exceeding the size limit.
func NewFileTooBigError() *errors.ValidationError {
	return &errors.ValidationError{
		Message: "File is too big",
		Field:   "size",
		Code:    CodeFileTooBig,
	}
}

// NewEmptyFileError reports an upload without content.
func NewEmptyFileError() *errors.ValidationError {
	return &errors.ValidationError{
		Message: "File is empty",
		Field:   "size",
		Code:    CodeEmptyFile,
	}
}
