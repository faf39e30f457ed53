package domain

import "context"

// SessionRepository defines session data access operations.
type SessionRepository interface {
	Find(ctx context.Context, deviceID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, deviceID string) error
}

// CartRepository defines cart data access operations. Carts are persisted
// after every mutation; last write wins across concurrent devices.
type CartRepository interface {
	Get(ctx context.Context, deviceID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, deviceID string) error
}

// AuthGateway is the backend's authentication surface as seen by the
// session service. Implementations carry the anti-forgery handshake and the
// single-refresh-then-retry policy on 401.
type AuthGateway interface {
	// FetchAntiForgeryToken obtains a fresh token before login, since no
	// session exists yet to carry one.
	FetchAntiForgeryToken(ctx context.Context) (string, error)
	// Login exchanges credentials against an anti-forgery token for a new
	// token pair. No state is mutated on failure.
	Login(ctx context.Context, csrfToken, email, password string) (*Credentials, error)
	// Profile fetches the current user using the device's stored credentials.
	Profile(ctx context.Context, deviceID string) (*Identity, error)
	// Logout invalidates the server-side session. Callers ignore its error.
	Logout(ctx context.Context, deviceID string) error
}

// OrderGateway is the backend's guest checkout surface.
type OrderGateway interface {
	CreateOrder(ctx context.Context, order *GuestOrder) (string, error)
	CreatePaymentPreference(ctx context.Context, orderID string) (string, error)
	OrderPaymentStatus(ctx context.Context, orderID string) (PaymentStatus, error)
}

// AdminGateway forwards authenticated admin requests to the backend,
// attaching the device's credentials and anti-forgery header.
type AdminGateway interface {
	Forward(ctx context.Context, deviceID, method, path string, body []byte) (int, []byte, error)
}

// SessionService defines the session manager operations.
type SessionService interface {
	Bootstrap(ctx context.Context, deviceID string) (*Session, error)
	Login(ctx context.Context, deviceID, email, password string) (*Session, error)
	Logout(ctx context.Context, deviceID string) error
	Current(ctx context.Context, deviceID string) (*Session, error)
	Guard(session *Session, roles ...string) error
	Subscribe(fn func(SessionEvent)) (unsubscribe func())
}

// CartService defines cart mutations. Every mutation persists the cart.
type CartService interface {
	Get(ctx context.Context, deviceID string) (*Cart, error)
	Add(ctx context.Context, deviceID string, item CartItem) (*Cart, error)
	UpdateQuantity(ctx context.Context, deviceID string, key ItemKey, quantity int) (*Cart, error)
	Remove(ctx context.Context, deviceID string, key ItemKey) (*Cart, error)
	Clear(ctx context.Context, deviceID string) error
	Total(cart *Cart) (float64, error)
}

// CheckoutService turns a cart plus a shipping form into a placed order and
// a payment redirect.
type CheckoutService interface {
	Submit(ctx context.Context, deviceID string, form *GuestCheckoutForm) (*CheckoutResult, error)
}

// PaymentTracker polls an order's payment status after the user returns
// from the external payment provider.
type PaymentTracker interface {
	// Await blocks until a terminal state is reached or ctx is cancelled.
	Await(ctx context.Context, orderID string) TrackState
}

// DeviceTokenService mints and validates the signed device cookie.
type DeviceTokenService interface {
	Issue(deviceID string) (string, error)
	Validate(token string) (string, error)
}

// SessionEventSink receives session lifecycle events. The backend client
// uses it to report sessions it expired while intercepting responses.
type SessionEventSink interface {
	Emit(event SessionEvent)
}
