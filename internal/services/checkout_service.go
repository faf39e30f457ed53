package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// CheckoutServiceImpl implements domain.CheckoutService. It validates the
// shipping form before any network call, places the guest order, obtains
// the payment preference and builds the external redirect URL. The cart is
// cleared only once both network steps succeed; a failure in between leaves
// an orphaned order server-side with no client-side compensation.
type CheckoutServiceImpl struct {
	orders       domain.OrderGateway
	carts        domain.CartService
	events       domain.SessionEventSink
	redirectBase string
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(orders domain.OrderGateway, carts domain.CartService, events domain.SessionEventSink, redirectBase string) domain.CheckoutService {
	return &CheckoutServiceImpl{
		orders:       orders,
		carts:        carts,
		events:       events,
		redirectBase: redirectBase,
	}
}

// Submit implements domain.CheckoutService
func (s *CheckoutServiceImpl) Submit(ctx context.Context, deviceID string, form *domain.GuestCheckoutForm) (*domain.CheckoutResult, error) {
	if err := normalizeForm(form); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	order := buildOrder(form, cart)

	orderID, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	prefID, err := s.orders.CreatePaymentPreference(ctx, orderID)
	if err != nil {
		// The order already exists server-side; reconciliation is a backend
		// concern, the client only surfaces the failure.
		return nil, err
	}

	if err := s.carts.Clear(ctx, deviceID); err != nil {
		log.Printf("CART_CLEAR_FAILED: device_id=%s order_id=%s error=%v", deviceID, orderID, err)
	}

	now := time.Now()
	log.Printf("ORDER_SUBMITTED: device_id=%s order_id=%s items=%d timestamp=%s",
		deviceID, orderID, len(order.Items), now.UTC().Format(time.RFC3339))
	if s.events != nil {
		s.events.Emit(domain.SessionEvent{
			Type:      domain.OrderSubmittedEvent,
			DeviceID:  deviceID,
			Timestamp: now,
		})
		// The caller is about to leave for the payment provider.
		s.events.Emit(domain.SessionEvent{
			Type:      domain.PaymentRedirectEvent,
			DeviceID:  deviceID,
			Timestamp: now,
		})
	}

	return &domain.CheckoutResult{
		OrderID:     orderID,
		RedirectURL: s.redirectBase + "?pref_id=" + prefID,
	}, nil
}

// normalizeForm trims every field, rejects blank required address fields
// and fills optional ones with the NotSpecified sentinel.
func normalizeForm(form *domain.GuestCheckoutForm) error {
	form.FullName = strings.TrimSpace(form.FullName)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)

	addr := &form.Address
	addr.Street = strings.TrimSpace(addr.Street)
	addr.City = strings.TrimSpace(addr.City)
	addr.Province = strings.TrimSpace(addr.Province)
	addr.PostalCode = strings.TrimSpace(addr.PostalCode)

	required := []struct {
		name  string
		value string
	}{
		{"street", addr.Street},
		{"city", addr.City},
		{"province", addr.Province},
		{"postal_code", addr.PostalCode},
	}
	for _, f := range required {
		if f.value == "" {
			return &domain.ValidationError{Field: f.name}
		}
	}

	addr.Number = defaultIfBlank(addr.Number)
	addr.Apartment = defaultIfBlank(addr.Apartment)
	addr.Floor = defaultIfBlank(addr.Floor)
	return nil
}

func defaultIfBlank(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return domain.NotSpecified
	}
	return v
}

func buildOrder(form *domain.GuestCheckoutForm, cart *domain.Cart) *domain.GuestOrder {
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Size:      it.Size,
			Color:     it.Color,
		})
	}
	return &domain.GuestOrder{
		FullName: form.FullName,
		Email:    form.Email,
		Phone:    form.Phone,
		Address:  form.Address,
		Items:    items,
	}
}
