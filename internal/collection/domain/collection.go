// Package domain defines backup collections: named, size-limited version sets
// that a list of tokens is allowed to manage.
package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
)

// Strategy decides what happens when a collection reaches MaxBackupsCount.
type Strategy string

const (
	StrategyDeleteOldestWhenAddingNew Strategy = "delete_oldest_when_adding_new"
	StrategyAlertWhenTooManyVersions  Strategy = "alert_when_too_many_versions"
)

// IsKnown reports whether s is a supported strategy.
func (s Strategy) IsKnown() bool {
	return s == StrategyDeleteOldestWhenAddingNew || s == StrategyAlertWhenTooManyVersions
}

const maxNameLength = 64

// Collection groups backup versions under shared limits.
type Collection struct {
	ID                uuid.UUID
	Name              string
	Description       string
	Strategy          Strategy
	MaxBackupsCount   int
	MaxOneVersionSize int64
	MaxCollectionSize int64
	// AllowedTokens lists token ids that may manage the collection.
	AllowedTokens []uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsTokenAllowed reports whether tokenID was granted access to the collection.
func (c *Collection) IsTokenAllowed(tokenID uuid.UUID) bool {
	return tokenID != uuid.Nil && slices.Contains(c.AllowedTokens, tokenID)
}

// GrantToken adds tokenID to the allowed tokens once.
func (c *Collection) GrantToken(tokenID uuid.UUID) {
	if tokenID == uuid.Nil || c.IsTokenAllowed(tokenID) {
		return
	}
	c.AllowedTokens = append(c.AllowedTokens, tokenID)
}

// CollectionInput is the editable part of a collection.
type CollectionInput struct {
	Name              string
	Description       string
	Strategy          string
	MaxBackupsCount   int
	MaxOneVersionSize int64
	MaxCollectionSize int64
	AllowedTokens     []uuid.UUID
}

// Apply maps input onto the collection.
//
// Malformed fields yield a *errors.MappingError listing every bad field and leave the
// collection untouched. Well-formed but inconsistent limits yield a *errors.ValidationError.
func (c *Collection) Apply(input *CollectionInput) error {
	fieldErrors := map[string]string{}

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		fieldErrors["name"] = "cannot be blank"
	case len(name) > maxNameLength:
		fieldErrors["name"] = fmt.Sprintf("cannot be longer than %d characters", maxNameLength)
	}

	strategy := Strategy(input.Strategy)
	if !strategy.IsKnown() {
		fieldErrors["strategy"] = fmt.Sprintf("unknown strategy %q", input.Strategy)
	}
	if input.MaxBackupsCount < 1 {
		fieldErrors["max_backups_count"] = "must be at least 1"
	}
	if input.MaxOneVersionSize < 1 {
		fieldErrors["max_one_version_size"] = "must be at least 1 byte"
	}
	if input.MaxCollectionSize < 1 {
		fieldErrors["max_collection_size"] = "must be at least 1 byte"
	}
	if len(fieldErrors) > 0 {
		return &apperrors.MappingError{Errors: fieldErrors}
	}

	if input.MaxOneVersionSize > input.MaxCollectionSize {
		return &apperrors.ValidationError{
			Message: "Max one version size cannot exceed max collection size",
			Field:   "max_one_version_size",
			Code:    "max_one_version_size_too_big",
		}
	}
	if int64(input.MaxBackupsCount)*input.MaxOneVersionSize > input.MaxCollectionSize &&
		strategy == StrategyAlertWhenTooManyVersions {
		return &apperrors.ValidationError{
			Message: "Max collection size cannot hold max backups count of max one version size",
			Field:   "max_collection_size",
			Code:    "max_collection_size_too_small",
		}
	}

	c.Name = name
	c.Description = strings.TrimSpace(input.Description)
	c.Strategy = strategy
	c.MaxBackupsCount = input.MaxBackupsCount
	c.MaxOneVersionSize = input.MaxOneVersionSize
	c.MaxCollectionSize = input.MaxCollectionSize
	if input.AllowedTokens != nil {
		c.AllowedTokens = nil
		for _, tokenID := range input.AllowedTokens {
			c.GrantToken(tokenID)
		}
	}
	return nil
}

// ListFilter narrows collection listings.
type ListFilter struct {
	// AllowedToken restricts results to collections granted to the token when set.
	AllowedToken uuid.UUID
	Offset       int
	Limit        int
}
