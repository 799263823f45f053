package domain

import (
	"mime"
	"slices"
	"strings"
)

// MimeClass groups mime types by the upload role required to store them.
type MimeClass string

const (
	MimeClassImage    MimeClass = "image"
	MimeClassDocument MimeClass = "document"
	MimeClassBackup   MimeClass = "backup"
	// MimeClassOther needs the unrestricted upload role.
	MimeClassOther MimeClass = "other"
)

var documentMimeTypes = []string{
	"application/pdf",
	"application/rtf",
	"application/msword",
	"application/vnd.ms-excel",
	"application/vnd.ms-powerpoint",
	"application/epub+zip",
	"application/json",
	"application/xml",
}

var documentMimePrefixes = []string{
	"text/",
	"application/vnd.openxmlformats-officedocument.",
	"application/vnd.oasis.opendocument.",
}

var backupMimeTypes = []string{
	"application/gzip",
	"application/x-gzip",
	"application/x-tar",
	"application/zip",
	"application/x-7z-compressed",
	"application/x-bzip2",
	"application/x-xz",
	"application/zstd",
	"application/x-rar-compressed",
	"application/vnd.rar",
	"application/x-lzip",
	"application/octet-stream",
	"application/x-sql",
	"application/sql",
}

// NormalizeMimeType lowercases the media type and drops its parameters.
func NormalizeMimeType(raw string) string {
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		mediaType, _, _ = strings.Cut(raw, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// ClassifyMimeType returns the class of a normalized mime type.
func ClassifyMimeType(mimeType string) MimeClass {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MimeClassImage
	case slices.Contains(backupMimeTypes, mimeType):
		return MimeClassBackup
	case slices.Contains(documentMimeTypes, mimeType):
		return MimeClassDocument
	}

	for _, prefix := range documentMimePrefixes {
		if strings.HasPrefix(mimeType, prefix) {
			return MimeClassDocument
		}
	}
	return MimeClassOther
}
