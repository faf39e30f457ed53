package mocks

import (
	"context"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// MockCheckoutService implements domain.CheckoutService for handler tests.
type MockCheckoutService struct {
	SubmitFunc func(ctx context.Context, deviceID string, form *domain.GuestCheckoutForm) (*domain.CheckoutResult, error)
}

// NewMockCheckoutService creates a new MockCheckoutService with default behaviors
func NewMockCheckoutService() *MockCheckoutService {
	return &MockCheckoutService{}
}

// Submit places a guest order
func (m *MockCheckoutService) Submit(ctx context.Context, deviceID string, form *domain.GuestCheckoutForm) (*domain.CheckoutResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, deviceID, form)
	}
	return &domain.CheckoutResult{OrderID: "order-1", RedirectURL: "https://example.test/redirect?pref_id=pref-1"}, nil
}

// Compile-time interface compliance verification
var _ domain.CheckoutService = (*MockCheckoutService)(nil)
