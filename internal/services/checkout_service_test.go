package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
	"github.com/nicolasconil/gp-frontend-sub000/internal/mocks"
)

// eventCapture records emitted session events.
type eventCapture struct {
	events []domain.SessionEvent
}

func (c *eventCapture) Emit(ev domain.SessionEvent) { c.events = append(c.events, ev) }

func validForm() *domain.GuestCheckoutForm {
	return &domain.GuestCheckoutForm{
		FullName: "  Ana García  ",
		Email:    "ana@example.com",
		Phone:    "+54 11 5555-0000",
		Address: domain.ShippingAddress{
			Street:     "Av. Corrientes",
			Number:     "1234",
			City:       "Buenos Aires",
			Province:   "CABA",
			PostalCode: "C1043",
		},
	}
}

func seedCart(t *testing.T, carts domain.CartService, deviceID string) {
	t.Helper()
	_, err := carts.Add(context.Background(), deviceID, domain.CartItem{
		ItemKey:  domain.ItemKey{ProductID: "p1", Size: "42", Color: "negro"},
		Name:     "Zapatilla Urbana",
		Price:    "1.234,56",
		Quantity: 2,
	})
	require.NoError(t, err)
}

func TestCheckoutServiceImpl_Submit_ValidationAbortsBeforeNetwork(t *testing.T) {
	orders := mocks.NewMockOrderGateway()
	cartRepo := mocks.NewMockCartRepository()
	carts := NewCartService(cartRepo)
	svc := NewCheckoutService(orders, carts, nil, "https://www.mercadopago.com.ar/checkout/v1/redirect")
	seedCart(t, carts, "dev-1")

	form := validForm()
	form.Address.City = "   "

	_, err := svc.Submit(context.Background(), "dev-1", form)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "city", ve.Field)
	assert.Zero(t, orders.CreateOrderCalls, "validation failure must issue zero network calls")
	assert.Zero(t, orders.CreatePreferenceCalls)
}

func TestCheckoutServiceImpl_Submit_EmptyCart(t *testing.T) {
	orders := mocks.NewMockOrderGateway()
	carts := NewCartService(mocks.NewMockCartRepository())
	svc := NewCheckoutService(orders, carts, nil, "https://pay.example")

	_, err := svc.Submit(context.Background(), "dev-1", validForm())

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Zero(t, orders.CreateOrderCalls)
}

func TestCheckoutServiceImpl_Submit_Success(t *testing.T) {
	orders := mocks.NewMockOrderGateway()
	var captured *domain.GuestOrder
	orders.CreateOrderFunc = func(ctx context.Context, order *domain.GuestOrder) (string, error) {
		captured = order
		return "order-77", nil
	}
	orders.CreatePaymentPreferenceFunc = func(ctx context.Context, orderID string) (string, error) {
		assert.Equal(t, "order-77", orderID)
		return "pref-99", nil
	}

	cartRepo := mocks.NewMockCartRepository()
	carts := NewCartService(cartRepo)
	events := &eventCapture{}
	svc := NewCheckoutService(orders, carts, events, "https://www.mercadopago.com.ar/checkout/v1/redirect")
	seedCart(t, carts, "dev-1")

	result, err := svc.Submit(context.Background(), "dev-1", validForm())
	require.NoError(t, err)

	assert.Equal(t, "order-77", result.OrderID)
	assert.Equal(t, "https://www.mercadopago.com.ar/checkout/v1/redirect?pref_id=pref-99", result.RedirectURL)

	// Contact fields are trimmed, optional address fields defaulted.
	require.NotNil(t, captured)
	assert.Equal(t, "Ana García", captured.FullName)
	assert.Equal(t, domain.NotSpecified, captured.Address.Apartment)
	assert.Equal(t, domain.NotSpecified, captured.Address.Floor)
	assert.Equal(t, "1234", captured.Address.Number)
	require.Len(t, captured.Items, 1)
	assert.Equal(t, 2, captured.Items[0].Quantity)

	// Cart cleared only after both steps succeeded.
	cart, err := carts.Get(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	// Order placement and the payment handoff are both announced.
	require.Len(t, events.events, 2)
	assert.Equal(t, domain.OrderSubmittedEvent, events.events[0].Type)
	assert.Equal(t, domain.PaymentRedirectEvent, events.events[1].Type)
	assert.Equal(t, "dev-1", events.events[1].DeviceID)
}

func TestCheckoutServiceImpl_Submit_OrderFailureLeavesCart(t *testing.T) {
	orders := mocks.NewMockOrderGateway()
	orders.CreateOrderFunc = func(ctx context.Context, order *domain.GuestOrder) (string, error) {
		return "", domain.ErrOrderNotCreated
	}

	carts := NewCartService(mocks.NewMockCartRepository())
	svc := NewCheckoutService(orders, carts, nil, "https://pay.example")
	seedCart(t, carts, "dev-1")

	_, err := svc.Submit(context.Background(), "dev-1", validForm())

	assert.ErrorIs(t, err, domain.ErrOrderNotCreated)
	assert.Zero(t, orders.CreatePreferenceCalls, "preference must not be requested without an order")

	cart, err := carts.Get(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.False(t, cart.IsEmpty(), "cart must be untouched on failure")
}

func TestCheckoutServiceImpl_Submit_PreferenceFailureLeavesCart(t *testing.T) {
	orders := mocks.NewMockOrderGateway()
	orders.CreatePaymentPreferenceFunc = func(ctx context.Context, orderID string) (string, error) {
		return "", errors.New("mercadopago unavailable")
	}

	carts := NewCartService(mocks.NewMockCartRepository())
	svc := NewCheckoutService(orders, carts, nil, "https://pay.example")
	seedCart(t, carts, "dev-1")

	_, err := svc.Submit(context.Background(), "dev-1", validForm())

	require.Error(t, err)
	assert.Equal(t, 1, orders.CreateOrderCalls, "order was already placed; no client-side compensation")

	cart, cerr := carts.Get(context.Background(), "dev-1")
	require.NoError(t, cerr)
	assert.False(t, cart.IsEmpty(), "cart must be untouched on failure")
}
