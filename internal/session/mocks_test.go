package session_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/khalef-khalil/nkcommerce/internal/apiclient"
	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// MockBackend is a mock implementation of ShopperAPI and AdminAPI.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ObtainToken(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, req models.RegisterRequest) (*models.Registration, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}

func (m *MockBackend) FetchIdentity(ctx context.Context, credential string) (*models.Identity, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockBackend) UpdateIdentity(ctx context.Context, credential string, patch models.ProfileInput) (*models.Identity, error) {
	args := m.Called(ctx, credential, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockBackend) FetchAdminIdentity(ctx context.Context, credential string) (*models.AdminIdentity, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminIdentity), args.Error(1)
}

func status(code int) error {
	return &apiclient.APIError{Method: "GET", Path: "/users/me/", Status: code, Message: "rejected"}
}
