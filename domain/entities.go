package domain

import "time"

// Roles recognized by the commerce backend.
const (
	RoleCliente       = "cliente"
	RoleModerador     = "moderador"
	RoleAdministrador = "administrador"
)

// NotSpecified is the sentinel stored for optional address fields left blank.
const NotSpecified = "No especificado"

// Identity represents the authenticated user as reported by the backend.
type Identity struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Credentials are the backend-issued tokens the gateway holds on behalf of a
// device. They are never sent to the browser.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	CSRFToken    string `json:"csrf_token"`
}

// Session ties a storefront device to a backend identity. Absence of a
// session record means the device is unauthenticated.
type Session struct {
	DeviceID    string      `json:"device_id"`
	Identity    *Identity   `json:"identity,omitempty"`
	Credentials Credentials `json:"credentials"`
	CreatedAt   time.Time   `json:"created_at"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// ItemKey uniquely identifies a cart line item. The same product in two
// size/color variants is two distinct line items.
type ItemKey struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// CartItem is one line item of a cart. Price keeps the backend's
// locale-formatted representation (e.g. "1.234,56") at rest.
type CartItem struct {
	ItemKey
	Name     string `json:"name"`
	Image    string `json:"image"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// Cart is the ordered collection of line items for one device.
type Cart struct {
	DeviceID  string     `json:"device_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Find returns the index of the line item with the given key, or -1.
func (c *Cart) Find(key ItemKey) int {
	for i, it := range c.Items {
		if it.ItemKey == key {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// ShippingAddress is the guest checkout address. Street, City, Province and
// PostalCode are required; the rest default to NotSpecified.
type ShippingAddress struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Apartment  string `json:"apartment"`
	Floor      string `json:"floor"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// GuestCheckoutForm is what the storefront submits to place a guest order.
type GuestCheckoutForm struct {
	FullName string          `json:"full_name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Address  ShippingAddress `json:"address"`
}

// OrderItem is one purchased line item in the order payload sent to the
// backend. Snapshot only; once submitted, state is server-owned.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// GuestOrder is the order snapshot submitted to the backend.
type GuestOrder struct {
	FullName string          `json:"full_name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Address  ShippingAddress `json:"shipping_address"`
	Items    []OrderItem     `json:"items"`
}

// PaymentStatus values reported by the backend for a public order.
type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "aprobado"
	PaymentRejected PaymentStatus = "rechazado"
	PaymentPending  PaymentStatus = "pendiente"
)

// TrackState is the presentation state of the payment-outcome tracker.
type TrackState string

const (
	TrackLoading  TrackState = "loading"
	TrackApproved TrackState = "approved"
	TrackRejected TrackState = "rejected"
	TrackPending  TrackState = "pending"
	TrackTimeout  TrackState = "timeout"
	TrackError    TrackState = "error"
)

// Terminal reports whether the tracker stops in this state. Pending is the
// only non-terminal observation.
func (s TrackState) Terminal() bool {
	return s == TrackApproved || s == TrackRejected || s == TrackTimeout || s == TrackError
}

// CheckoutResult is returned once an order is placed and the payment
// preference obtained.
type CheckoutResult struct {
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
}

// ProductVariant is one size/color/stock combination of an admin product form.
type ProductVariant struct {
	Size  string `json:"size"`
	Color string `json:"color"`
	Stock int    `json:"stock"`
}
