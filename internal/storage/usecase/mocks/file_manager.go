// Package mocks provides mock implementations of the storage use cases.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/riotkit-org/backup-repository/internal/storage/domain"
	"github.com/riotkit-org/backup-repository/internal/storage/usecase"
)

// MockFileManager is a mock implementation of usecase.FileManager.
type MockFileManager struct {
	mock.Mock
}

// Store mocks FileManager.Store.
func (m *MockFileManager) Store(
	ctx context.Context,
	upload *domain.Upload,
	content io.Reader,
	policy usecase.UploadPolicy,
) (*domain.StoredFile, error) {
	args := m.Called(ctx, upload, content, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredFile), args.Error(1)
}

// GetByFilename mocks FileManager.GetByFilename.
func (m *MockFileManager) GetByFilename(ctx context.Context, filename domain.Filename) (*domain.StoredFile, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredFile), args.Error(1)
}

// Open mocks FileManager.Open.
func (m *MockFileManager) Open(ctx context.Context, file *domain.StoredFile) (io.ReadCloser, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// List mocks FileManager.List.
func (m *MockFileManager) List(ctx context.Context, filter domain.ListFilter) ([]*domain.StoredFile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StoredFile), args.Error(1)
}
