package domain

import (
	"errors"
	"fmt"
)

// Session errors
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session has expired")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInsufficientRole = errors.New("insufficient role permissions")
)

// Cart errors
var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidPrice    = errors.New("invalid price format")
	ErrEmptyCart       = errors.New("cart is empty")
)

// Checkout errors
var (
	ErrOrderNotCreated      = errors.New("order could not be created")
	ErrPreferenceNotCreated = errors.New("payment preference could not be created")
	ErrMissingOrderRef      = errors.New("missing order reference")
)

// Admin form errors
var (
	ErrDuplicateVariant = errors.New("duplicate size/color combination")
	ErrMissingImage     = errors.New("product image is required")
)

// ValidationError reports a checkout form field that failed validation.
// Caught before any network call.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q is required", e.Field)
}

// BackendError carries the backend's status code and error message so
// handlers can surface it for display.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}
