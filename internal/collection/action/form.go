// Package action implements the collection operations.
package action

import (
	"time"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
)

// CreateForm is a parsed collection creation request.
type CreateForm struct {
	Input domain.CollectionInput
}

// EditForm carries the collection resolved from the request, nil when it does not exist.
type EditForm struct {
	Collection *domain.Collection
	Input      domain.CollectionInput
}

// ListForm is a parsed collection listing request.
type ListForm struct {
	Page  int
	Limit int
}

// CollectionView is the public representation of a collection.
type CollectionView struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Strategy          string      `json:"strategy"`
	MaxBackupsCount   int         `json:"max_backups_count"`
	MaxOneVersionSize int64       `json:"max_one_version_size"`
	MaxCollectionSize int64       `json:"max_collection_size"`
	AllowedTokens     []uuid.UUID `json:"allowed_tokens"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// NewCollectionView converts a domain collection into its response representation.
func NewCollectionView(collection *domain.Collection) CollectionView {
	allowedTokens := collection.AllowedTokens
	if allowedTokens == nil {
		allowedTokens = []uuid.UUID{}
	}
	return CollectionView{
		ID:                collection.ID,
		Name:              collection.Name,
		Description:       collection.Description,
		Strategy:          string(collection.Strategy),
		MaxBackupsCount:   collection.MaxBackupsCount,
		MaxOneVersionSize: collection.MaxOneVersionSize,
		MaxCollectionSize: collection.MaxCollectionSize,
		AllowedTokens:     allowedTokens,
		CreatedAt:         collection.CreatedAt,
		UpdatedAt:         collection.UpdatedAt,
	}
}
