// Package usecase implements backup collection management.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
)

// CollectionRepository persists collections.
// Implementations must support transaction-aware operations via context propagation.
type CollectionRepository interface {
	Create(ctx context.Context, collection *domain.Collection) error

	// Update overwrites every mutable column. Returns ErrCollectionNotFound if missing.
	Update(ctx context.Context, collection *domain.Collection) error

	// Get retrieves a collection by ID. Returns ErrCollectionNotFound if not found.
	Get(ctx context.Context, collectionID uuid.UUID) (*domain.Collection, error)

	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Collection, error)

	Delete(ctx context.Context, collectionID uuid.UUID) error
}

// CollectionManager manages collections on behalf of action handlers.
// Domain failures are returned as *errors.MappingError or *errors.ValidationError.
type CollectionManager interface {
	// Create builds a collection from input and grants creatorID access to it.
	Create(ctx context.Context, input *domain.CollectionInput, creatorID uuid.UUID) (*domain.Collection, error)

	// Edit applies input to collection and persists it.
	Edit(ctx context.Context, collection *domain.Collection, input *domain.CollectionInput) (*domain.Collection, error)

	Get(ctx context.Context, collectionID uuid.UUID) (*domain.Collection, error)

	List(ctx context.Context, filter domain.ListFilter) ([]*domain.Collection, error)

	Delete(ctx context.Context, collection *domain.Collection) error
}
