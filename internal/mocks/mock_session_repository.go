package mocks

import (
	"context"
	"sync"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing.
// Without overrides it behaves as an in-memory store.
type MockSessionRepository struct {
	FindFunc   func(ctx context.Context, deviceID string) (*domain.Session, error)
	SaveFunc   func(ctx context.Context, session *domain.Session) error
	DeleteFunc func(ctx context.Context, deviceID string) error

	mu       sync.Mutex
	sessions map[string]*domain.Session
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[string]*domain.Session)}
}

// Find finds a session by device ID
func (m *MockSessionRepository) Find(ctx context.Context, deviceID string) (*domain.Session, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, deviceID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[deviceID]; ok {
		copied := *sess
		return &copied, nil
	}
	return nil, domain.ErrSessionNotFound
}

// Save stores a session
func (m *MockSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.DeviceID] = &copied
	return nil
}

// Delete removes a session by device ID
func (m *MockSessionRepository) Delete(ctx context.Context, deviceID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, deviceID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, deviceID)
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*MockSessionRepository)(nil)
