package mocks

import (
	"context"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// MockAuthGateway implements domain.AuthGateway for testing.
type MockAuthGateway struct {
	FetchAntiForgeryTokenFunc func(ctx context.Context) (string, error)
	LoginFunc                 func(ctx context.Context, csrfToken, email, password string) (*domain.Credentials, error)
	ProfileFunc               func(ctx context.Context, deviceID string) (*domain.Identity, error)
	LogoutFunc                func(ctx context.Context, deviceID string) error

	LoginCalls  int
	LogoutCalls int
}

// NewMockAuthGateway creates a new MockAuthGateway with default behaviors
func NewMockAuthGateway() *MockAuthGateway {
	return &MockAuthGateway{}
}

// FetchAntiForgeryToken fetches a fresh anti-forgery token
func (m *MockAuthGateway) FetchAntiForgeryToken(ctx context.Context) (string, error) {
	if m.FetchAntiForgeryTokenFunc != nil {
		return m.FetchAntiForgeryTokenFunc(ctx)
	}
	// Default behavior: a fixed token
	return "csrf-token", nil
}

// Login exchanges credentials for a token pair
func (m *MockAuthGateway) Login(ctx context.Context, csrfToken, email, password string) (*domain.Credentials, error) {
	m.LoginCalls++
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, csrfToken, email, password)
	}
	return &domain.Credentials{AccessToken: "access", RefreshToken: "refresh", CSRFToken: csrfToken}, nil
}

// Profile fetches the current identity
func (m *MockAuthGateway) Profile(ctx context.Context, deviceID string) (*domain.Identity, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, deviceID)
	}
	return &domain.Identity{UserID: "1", FullName: "Test User", Email: "test@example.com", Role: domain.RoleCliente}, nil
}

// Logout invalidates the server-side session
func (m *MockAuthGateway) Logout(ctx context.Context, deviceID string) error {
	m.LogoutCalls++
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, deviceID)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthGateway = (*MockAuthGateway)(nil)
