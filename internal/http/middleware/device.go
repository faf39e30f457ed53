package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
	infra "github.com/nicolasconil/gp-frontend-sub000/internal/infrastructure/auth"
)

// DeviceMW assigns every browser a signed HTTP-only device cookie. The
// device ID keys all per-browser state (session, cart) server-side.
type DeviceMW struct {
	tokens     domain.DeviceTokenService
	cookieName string
	ttl        time.Duration
}

// NewDeviceMW creates new device middleware wrapper
func NewDeviceMW(tokens domain.DeviceTokenService, cookieName string, ttl time.Duration) *DeviceMW {
	return &DeviceMW{
		tokens:     tokens,
		cookieName: cookieName,
		ttl:        ttl,
	}
}

// WithDevice returns the device cookie middleware. An invalid or absent
// cookie gets a fresh device identity; requests never fail here.
func (mw *DeviceMW) WithDevice() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		deviceID := ""
		if cookie, err := c.Cookie(mw.cookieName); err == nil {
			if id, err := mw.tokens.Validate(cookie); err == nil {
				deviceID = id
			}
		}

		if deviceID == "" {
			deviceID = infra.NewDeviceID()
			token, err := mw.tokens.Issue(deviceID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to establish device identity"})
				c.Abort()
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(mw.cookieName, token, int(mw.ttl.Seconds()), "/", "", false, true)
		}

		c.Set("device_id", deviceID)
		c.Next()
	})
}
