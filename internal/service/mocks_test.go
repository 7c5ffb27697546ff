package service

import (
	"context"

	"github.com/phrazzld/content-generator/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCredentialStore mocks the store.CredentialStore interface
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) GetByUserID(ctx context.Context, userID string) ([]domain.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Credential), args.Error(1)
}

// MockGenerator mocks the generation.Generator interface
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(
	ctx context.Context,
	req domain.GenerationRequest,
	creds domain.ProviderCredentials,
) (*domain.GeneratedContent, error) {
	args := m.Called(ctx, req, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedContent), args.Error(1)
}
