// Package mocks provides mock implementations of the collection use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/riotkit-org/backup-repository/internal/collection/domain"
)

// MockCollectionManager is a mock implementation of usecase.CollectionManager.
type MockCollectionManager struct {
	mock.Mock
}

// Create mocks CollectionManager.Create.
func (m *MockCollectionManager) Create(
	ctx context.Context,
	input *domain.CollectionInput,
	creatorID uuid.UUID,
) (*domain.Collection, error) {
	args := m.Called(ctx, input, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

// Edit mocks CollectionManager.Edit.
func (m *MockCollectionManager) Edit(
	ctx context.Context,
	collection *domain.Collection,
	input *domain.CollectionInput,
) (*domain.Collection, error) {
	args := m.Called(ctx, collection, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

// Get mocks CollectionManager.Get.
func (m *MockCollectionManager) Get(ctx context.Context, collectionID uuid.UUID) (*domain.Collection, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

// List mocks CollectionManager.List.
func (m *MockCollectionManager) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Collection, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Collection), args.Error(1)
}

// Delete mocks CollectionManager.Delete.
func (m *MockCollectionManager) Delete(ctx context.Context, collection *domain.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}
