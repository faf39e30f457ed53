package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// CheckoutHandlers handles guest checkout and payment-return tracking.
type CheckoutHandlers struct {
	checkout domain.CheckoutService
	tracker  domain.PaymentTracker
}

// NewCheckoutHandlers creates new checkout handlers
func NewCheckoutHandlers(checkout domain.CheckoutService, tracker domain.PaymentTracker) *CheckoutHandlers {
	return &CheckoutHandlers{checkout: checkout, tracker: tracker}
}

// SubmitRequest represents a guest checkout submission. Address fields are
// validated by the checkout service so the failure surfaces as a field
// message, not a binding error.
type SubmitRequest struct {
	FullName string                 `json:"full_name" binding:"required"`
	Email    string                 `json:"email" binding:"required,email"`
	Phone    string                 `json:"phone" binding:"required"`
	Address  domain.ShippingAddress `json:"address"`
}

// Submit handles placing a guest order and producing the payment redirect.
func (h *CheckoutHandlers) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID := c.GetString("device_id")
	form := &domain.GuestCheckoutForm{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	result, err := h.checkout.Submit(c.Request.Context(), deviceID, form)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		case errors.Is(err, domain.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Checkout failed, please try again"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"order_id":     result.OrderID,
			"redirect_url": result.RedirectURL,
		},
	})
}

// Result handles the return from the payment provider. It polls the order's
// payment status until a terminal state; loading, pending, timeout and
// error are distinct presentation states.
func (h *CheckoutHandlers) Result(c *gin.Context) {
	orderID := c.Query("external_reference")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingOrderRef.Error()})
		return
	}

	state := h.tracker.Await(c.Request.Context(), orderID)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"order_id":        orderID,
			"provider_status": c.Query("status"),
			"state":           state,
		},
	})
}
