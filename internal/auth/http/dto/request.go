// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	"github.com/riotkit-org/backup-repository/internal/auth/action"
	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	customValidation "github.com/riotkit-org/backup-repository/internal/validation"
)

// GenerateTokenRequest contains the parameters for generating a new token.
type GenerateTokenRequest struct {
	ID                 string     `json:"id"`
	Roles              []string   `json:"roles"`
	Tags               []string   `json:"tags"`
	AllowedMimeTypes   []string   `json:"allowed_mime_types"`
	MaxAllowedFileSize int64      `json:"max_allowed_file_size"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

// Validate checks the request shape. Role names are checked by the action.
func (r *GenerateTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, customValidation.UUID),
		validation.Field(&r.Roles,
			validation.Required,
			validation.Each(customValidation.NotBlank),
		),
		validation.Field(&r.Tags, validation.Each(customValidation.Tag)),
		validation.Field(&r.AllowedMimeTypes, validation.Each(customValidation.MimeType)),
		validation.Field(&r.MaxAllowedFileSize, validation.Min(int64(0))),
		validation.Field(&r.ExpiresAt, validation.By(inFuture)),
	)
}

// ToForm converts the request into the action form.
func (r *GenerateTokenRequest) ToForm() *action.GenerateTokenForm {
	return &action.GenerateTokenForm{
		ID:    r.ID,
		Roles: r.Roles,
		Data: authDomain.TokenData{
			Tags:               r.Tags,
			AllowedMimeTypes:   r.AllowedMimeTypes,
			MaxAllowedFileSize: r.MaxAllowedFileSize,
		},
		ExpiresAt: r.ExpiresAt,
	}
}

func inFuture(value any) error {
	expiresAt, ok := value.(*time.Time)
	if !ok || expiresAt == nil {
		return nil
	}
	if !expiresAt.After(time.Now()) {
		return validation.NewError("validation_expires_at", "must be in the future")
	}
	return nil
}
