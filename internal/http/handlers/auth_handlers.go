package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// AuthHandlers handles session HTTP requests for the storefront.
type AuthHandlers struct {
	sessions domain.SessionService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(sessions domain.SessionService) *AuthHandlers {
	return &AuthHandlers{sessions: sessions}
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID := c.GetString("device_id")
	sess, err := h.sessions.Login(c.Request.Context(), deviceID, req.Email, req.Password)
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) {
			// Surface the backend's message for display.
			c.JSON(be.Status, gin.H{"error": be.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"user": gin.H{
				"id":        sess.Identity.UserID,
				"full_name": sess.Identity.FullName,
				"email":     sess.Identity.Email,
				"role":      sess.Identity.Role,
			},
		},
	})
}

// Me handles getting the current session's identity. Bootstraps it from the
// backend when the device has credentials but no cached identity yet.
func (h *AuthHandlers) Me(c *gin.Context) {
	deviceID := c.GetString("device_id")
	sess, err := h.sessions.Current(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":        sess.Identity.UserID,
			"full_name": sess.Identity.FullName,
			"email":     sess.Identity.Email,
			"role":      sess.Identity.Role,
		},
	})
}

// Logout handles user logout. Always succeeds locally, whatever the
// backend call did.
func (h *AuthHandlers) Logout(c *gin.Context) {
	deviceID := c.GetString("device_id")
	_ = h.sessions.Logout(c.Request.Context(), deviceID)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}
