package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
)

type collectionManager struct {
	collectionRepo CollectionRepository
	now            func() time.Time
}

// Create validates and stores a new collection.
func (m *collectionManager) Create(
	ctx context.Context,
	input *domain.CollectionInput,
	creatorID uuid.UUID,
) (*domain.Collection, error) {
	now := m.now()
	collection := &domain.Collection{
		ID:        uuid.Must(uuid.NewV7()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := collection.Apply(input); err != nil {
		return nil, err
	}
	collection.GrantToken(creatorID)

	if err := m.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Edit works on a copy so a failed update leaves the caller's collection intact.
func (m *collectionManager) Edit(
	ctx context.Context,
	collection *domain.Collection,
	input *domain.CollectionInput,
) (*domain.Collection, error) {
	edited := *collection
	edited.AllowedTokens = append([]uuid.UUID(nil), collection.AllowedTokens...)

	if err := edited.Apply(input); err != nil {
		return nil, err
	}
	edited.UpdatedAt = m.now()

	if err := m.collectionRepo.Update(ctx, &edited); err != nil {
		return nil, err
	}
	return &edited, nil
}

// Get retrieves a collection by its ID.
func (m *collectionManager) Get(ctx context.Context, collectionID uuid.UUID) (*domain.Collection, error) {
	return m.collectionRepo.Get(ctx, collectionID)
}

// List returns collections matching the filter.
func (m *collectionManager) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Collection, error) {
	return m.collectionRepo.List(ctx, filter)
}

// Delete removes the collection.
func (m *collectionManager) Delete(ctx context.Context, collection *domain.Collection) error {
	return m.collectionRepo.Delete(ctx, collection.ID)
}

// NewCollectionManager creates a CollectionManager.
func NewCollectionManager(collectionRepo CollectionRepository) CollectionManager {
	return &collectionManager{
		collectionRepo: collectionRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
}
