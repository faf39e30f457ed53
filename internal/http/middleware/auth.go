package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// AuthMW wraps the session service for route guarding.
type AuthMW struct {
	sessions domain.SessionService
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(sessions domain.SessionService) *AuthMW {
	return &AuthMW{sessions: sessions}
}

// WithSession returns middleware that requires an authenticated session.
// Unauthenticated devices are told to log in; role enforcement is the
// casbin middleware's job.
func (mw *AuthMW) WithSession() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		deviceID := c.GetString("device_id")
		if deviceID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Device identity required"})
			c.Abort()
			return
		}

		sess, _ := mw.sessions.Current(c.Request.Context(), deviceID)
		if err := mw.sessions.Guard(sess); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "Authentication required",
				"redirect": "/login",
			})
			c.Abort()
			return
		}

		c.Set("user_id", sess.Identity.UserID)
		c.Set("user_role", sess.Identity.Role)
		c.Next()
	})
}
