package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
	"github.com/riotkit-org/backup-repository/internal/metrics"
)

type collectionManagerWithMetrics struct {
	next    CollectionManager
	metrics metrics.BusinessMetrics
}

// NewCollectionManagerWithMetrics wraps a CollectionManager with metrics recording.
func NewCollectionManagerWithMetrics(manager CollectionManager, m metrics.BusinessMetrics) CollectionManager {
	return &collectionManagerWithMetrics{next: manager, metrics: m}
}

// Create records metrics around CollectionManager.Create.
func (c *collectionManagerWithMetrics) Create(
	ctx context.Context,
	input *domain.CollectionInput,
	creatorID uuid.UUID,
) (*domain.Collection, error) {
	start := time.Now()
	collection, err := c.next.Create(ctx, input, creatorID)
	metrics.Observe(ctx, c.metrics, "collection", "collection_create", start, metrics.StatusOf(err))
	return collection, err
}

// Edit records metrics around CollectionManager.Edit.
func (c *collectionManagerWithMetrics) Edit(
	ctx context.Context,
	collection *domain.Collection,
	input *domain.CollectionInput,
) (*domain.Collection, error) {
	start := time.Now()
	edited, err := c.next.Edit(ctx, collection, input)
	metrics.Observe(ctx, c.metrics, "collection", "collection_edit", start, metrics.StatusOf(err))
	return edited, err
}

// Get records metrics around CollectionManager.Get.
func (c *collectionManagerWithMetrics) Get(ctx context.Context, collectionID uuid.UUID) (*domain.Collection, error) {
	start := time.Now()
	collection, err := c.next.Get(ctx, collectionID)
	metrics.Observe(ctx, c.metrics, "collection", "collection_get", start, metrics.StatusOf(err))
	return collection, err
}

// List records metrics around CollectionManager.List.
func (c *collectionManagerWithMetrics) List(
	ctx context.Context,
	filter domain.ListFilter,
) ([]*domain.Collection, error) {
	start := time.Now()
	collections, err := c.next.List(ctx, filter)
	metrics.Observe(ctx, c.metrics, "collection", "collection_list", start, metrics.StatusOf(err))
	return collections, err
}

// Delete records metrics around CollectionManager.Delete.
func (c *collectionManagerWithMetrics) Delete(ctx context.Context, collection *domain.Collection) error {
	start := time.Now()
	err := c.next.Delete(ctx, collection)
	metrics.Observe(ctx, c.metrics, "collection", "collection_delete", start, metrics.StatusOf(err))
	return err
}
