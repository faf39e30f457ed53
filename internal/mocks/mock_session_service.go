package mocks

import (
	"context"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// MockSessionService implements domain.SessionService for handler tests.
type MockSessionService struct {
	BootstrapFunc func(ctx context.Context, deviceID string) (*domain.Session, error)
	LoginFunc     func(ctx context.Context, deviceID, email, password string) (*domain.Session, error)
	LogoutFunc    func(ctx context.Context, deviceID string) error
	CurrentFunc   func(ctx context.Context, deviceID string) (*domain.Session, error)
	GuardFunc     func(session *domain.Session, roles ...string) error
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

// Bootstrap populates the session identity from the backend
func (m *MockSessionService) Bootstrap(ctx context.Context, deviceID string) (*domain.Session, error) {
	if m.BootstrapFunc != nil {
		return m.BootstrapFunc(ctx, deviceID)
	}
	return nil, domain.ErrNotAuthenticated
}

// Login authenticates a device
func (m *MockSessionService) Login(ctx context.Context, deviceID, email, password string) (*domain.Session, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, deviceID, email, password)
	}
	return nil, domain.ErrNotAuthenticated
}

// Logout clears a device's session
func (m *MockSessionService) Logout(ctx context.Context, deviceID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, deviceID)
	}
	return nil
}

// Current returns the device's session
func (m *MockSessionService) Current(ctx context.Context, deviceID string) (*domain.Session, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx, deviceID)
	}
	return nil, domain.ErrNotAuthenticated
}

// Guard checks role membership
func (m *MockSessionService) Guard(session *domain.Session, roles ...string) error {
	if m.GuardFunc != nil {
		return m.GuardFunc(session, roles...)
	}
	if session == nil || session.Identity == nil {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// Subscribe registers a session-change listener
func (m *MockSessionService) Subscribe(fn func(domain.SessionEvent)) func() {
	return func() {}
}

// Compile-time interface compliance verification
var _ domain.SessionService = (*MockSessionService)(nil)
