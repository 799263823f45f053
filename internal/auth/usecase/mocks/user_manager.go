// Package mocks provides mock implementations of the authentication use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
)

// MockUserManager is a mock implementation of usecase.UserManager.
type MockUserManager struct {
	mock.Mock
}

// Generate mocks UserManager.Generate.
func (m *MockUserManager) Generate(
	ctx context.Context,
	input *authDomain.GenerateTokenInput,
) (*authDomain.GenerateTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.GenerateTokenOutput), args.Error(1)
}

// Get mocks UserManager.Get.
func (m *MockUserManager) Get(ctx context.Context, tokenID uuid.UUID) (*authDomain.Token, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

// Search mocks UserManager.Search.
func (m *MockUserManager) Search(
	ctx context.Context,
	filter authDomain.SearchFilter,
) ([]*authDomain.Token, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Token), args.Error(1)
}

// Revoke mocks UserManager.Revoke.
func (m *MockUserManager) Revoke(ctx context.Context, token *authDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Authenticate mocks UserManager.Authenticate.
func (m *MockUserManager) Authenticate(ctx context.Context, plainToken string) (*authDomain.Token, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}
