// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
	customValidation "github.com/riotkit-org/backup-repository/internal/validation"
)

// CollectionRequest contains the editable collection settings.
type CollectionRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Strategy          string   `json:"strategy"`
	MaxBackupsCount   int      `json:"max_backups_count"`
	MaxOneVersionSize int64    `json:"max_one_version_size"`
	MaxCollectionSize int64    `json:"max_collection_size"`
	AllowedTokens     []string `json:"allowed_tokens"`
}

// Validate checks the request shape. Limits and strategy are checked by the domain.
func (r *CollectionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Description, validation.Length(0, 1024)),
		validation.Field(&r.Strategy, validation.Required),
		validation.Field(&r.AllowedTokens, validation.Each(customValidation.UUID)),
	)
}

// ToInput converts the request into a domain input. Call Validate first.
func (r *CollectionRequest) ToInput() domain.CollectionInput {
	var allowedTokens []uuid.UUID
	if r.AllowedTokens != nil {
		allowedTokens = make([]uuid.UUID, 0, len(r.AllowedTokens))
		for _, raw := range r.AllowedTokens {
			if id, err := uuid.Parse(raw); err == nil {
				allowedTokens = append(allowedTokens, id)
			}
		}
	}

	return domain.CollectionInput{
		Name:              r.Name,
		Description:       r.Description,
		Strategy:          r.Strategy,
		MaxBackupsCount:   r.MaxBackupsCount,
		MaxOneVersionSize: r.MaxOneVersionSize,
		MaxCollectionSize: r.MaxCollectionSize,
		AllowedTokens:     allowedTokens,
	}
}
