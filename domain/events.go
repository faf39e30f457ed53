package domain

import "time"

// SessionEventType defines the type of session lifecycle event.
type SessionEventType string

const (
	// Session lifecycle events
	SessionLoginEvent     SessionEventType = "SESSION_LOGIN"
	SessionLogoutEvent    SessionEventType = "SESSION_LOGOUT"
	SessionRefreshedEvent SessionEventType = "SESSION_REFRESHED"
	SessionExpiredEvent   SessionEventType = "SESSION_EXPIRED"

	// Checkout events
	OrderSubmittedEvent  SessionEventType = "ORDER_SUBMITTED"
	PaymentRedirectEvent SessionEventType = "PAYMENT_REDIRECT"
)

// SessionEvent is published to subscribers whenever the authenticated state
// of a device changes.
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	DeviceID  string           `json:"device_id"`
	UserID    string           `json:"user_id,omitempty"`
	Role      string           `json:"role,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	ErrorMsg  string           `json:"error_msg,omitempty"`
}
