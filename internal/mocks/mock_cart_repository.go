package mocks

import (
	"context"
	"sync"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// MockCartRepository implements domain.CartRepository for testing. Without
// overrides it behaves as an in-memory store where a missing cart is empty.
type MockCartRepository struct {
	GetFunc    func(ctx context.Context, deviceID string) (*domain.Cart, error)
	SaveFunc   func(ctx context.Context, cart *domain.Cart) error
	DeleteFunc func(ctx context.Context, deviceID string) error

	mu    sync.Mutex
	carts map[string]*domain.Cart

	SaveCalls   int
	DeleteCalls int
}

// NewMockCartRepository creates a new MockCartRepository with default behaviors
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{carts: make(map[string]*domain.Cart)}
}

// Get returns the stored cart, or an empty one
func (m *MockCartRepository) Get(ctx context.Context, deviceID string) (*domain.Cart, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, deviceID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[deviceID]; ok {
		copied := *cart
		copied.Items = append([]domain.CartItem(nil), cart.Items...)
		return &copied, nil
	}
	return &domain.Cart{DeviceID: deviceID}, nil
}

// Save stores a cart
func (m *MockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, cart)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *cart
	copied.Items = append([]domain.CartItem(nil), cart.Items...)
	m.carts[cart.DeviceID] = &copied
	return nil
}

// Delete removes a cart
func (m *MockCartRepository) Delete(ctx context.Context, deviceID string) error {
	m.mu.Lock()
	m.DeleteCalls++
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, deviceID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, deviceID)
	return nil
}

// Compile-time interface compliance verification
var _ domain.CartRepository = (*MockCartRepository)(nil)
