// Package dto provides data transfer objects for the file repository endpoints.
package dto

import (
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/riotkit-org/backup-repository/internal/storage/action"
	customValidation "github.com/riotkit-org/backup-repository/internal/validation"
)

// UploadRequest holds the upload attributes. The raw body endpoint reads it from the query string.
type UploadRequest struct {
	Filename string   `form:"filename" json:"filename"`
	Tags     []string `form:"tags" json:"tags"`
	Public   bool     `form:"public" json:"public"`
	Password string   `form:"password" json:"password"`
}

// Validate also flattens comma separated tags.
func (r *UploadRequest) Validate() error {
	r.Tags = splitList(r.Tags)

	return validation.ValidateStruct(r,
		validation.Field(&r.Filename, validation.Length(0, 254)),
		validation.Field(&r.Tags, validation.Each(customValidation.Tag)),
		validation.Field(&r.Password, validation.Length(0, 128)),
	)
}

// ToForm converts the request into an action form.
func (r *UploadRequest) ToForm() action.UploadForm {
	return action.UploadForm{
		Filename: r.Filename,
		Tags:     splitList(r.Tags),
		Public:   r.Public,
		Password: r.Password,
	}
}

// UploadByURLRequest asks the server to download a remote file.
type UploadByURLRequest struct {
	UploadRequest
	URL string `json:"url"`
}

// Validate checks the request fields.
func (r *UploadByURLRequest) Validate() error {
	if err := r.UploadRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.URL, validation.Required, customValidation.NoWhitespace, validation.Length(1, 2048)),
	)
}

// ToForm converts the request into an action form.
func (r *UploadByURLRequest) ToForm() *action.UploadByURLForm {
	return &action.UploadByURLForm{UploadForm: r.UploadRequest.ToForm(), URL: r.URL}
}

// ListFilesRequest holds the listing filters. List values may be repeated or comma separated.
type ListFilesRequest struct {
	Tags      []string `form:"tags"`
	MimeTypes []string `form:"mime_types"`
	Search    string   `form:"search"`
	OnlyMine  bool     `form:"only_mine"`
}

// Validate checks the request fields.
func (r *ListFilesRequest) Validate() error {
	r.Tags = splitList(r.Tags)
	r.MimeTypes = splitList(r.MimeTypes)

	return validation.ValidateStruct(r,
		validation.Field(&r.Tags, validation.Each(customValidation.Tag)),
		validation.Field(&r.MimeTypes, validation.Each(customValidation.MimeType)),
		validation.Field(&r.Search, validation.Length(0, 254)),
	)
}

// ToForm converts the request into an action form.
func (r *ListFilesRequest) ToForm(page, limit int) *action.FilesListingForm {
	return &action.FilesListingForm{
		Tags:      r.Tags,
		MimeTypes: r.MimeTypes,
		Search:    r.Search,
		OnlyMine:  r.OnlyMine,
		Page:      page,
		Limit:     limit,
	}
}

// splitList flattens comma separated values and drops empty entries.
func splitList(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
