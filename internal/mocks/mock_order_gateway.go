package mocks

import (
	"context"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// MockOrderGateway implements domain.OrderGateway for testing. Call
// counters let tests assert how many network calls a flow issued.
type MockOrderGateway struct {
	CreateOrderFunc             func(ctx context.Context, order *domain.GuestOrder) (string, error)
	CreatePaymentPreferenceFunc func(ctx context.Context, orderID string) (string, error)
	OrderPaymentStatusFunc      func(ctx context.Context, orderID string) (domain.PaymentStatus, error)

	CreateOrderCalls      int
	CreatePreferenceCalls int
	StatusCalls           int
}

// NewMockOrderGateway creates a new MockOrderGateway with default behaviors
func NewMockOrderGateway() *MockOrderGateway {
	return &MockOrderGateway{}
}

// CreateOrder submits a guest order
func (m *MockOrderGateway) CreateOrder(ctx context.Context, order *domain.GuestOrder) (string, error) {
	m.CreateOrderCalls++
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, order)
	}
	return "order-1", nil
}

// CreatePaymentPreference obtains a payment handoff identifier
func (m *MockOrderGateway) CreatePaymentPreference(ctx context.Context, orderID string) (string, error) {
	m.CreatePreferenceCalls++
	if m.CreatePaymentPreferenceFunc != nil {
		return m.CreatePaymentPreferenceFunc(ctx, orderID)
	}
	return "pref-1", nil
}

// OrderPaymentStatus reports the order's payment status
func (m *MockOrderGateway) OrderPaymentStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error) {
	m.StatusCalls++
	if m.OrderPaymentStatusFunc != nil {
		return m.OrderPaymentStatusFunc(ctx, orderID)
	}
	return domain.PaymentPending, nil
}

// Compile-time interface compliance verification
var _ domain.OrderGateway = (*MockOrderGateway)(nil)
