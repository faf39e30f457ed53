package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
	"github.com/nicolasconil/gp-frontend-sub000/internal/config"
	httpx "github.com/nicolasconil/gp-frontend-sub000/internal/http"
	"github.com/nicolasconil/gp-frontend-sub000/internal/http/handlers"
	"github.com/nicolasconil/gp-frontend-sub000/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	// Audit session lifecycle changes.
	c.SessionSvc.Subscribe(func(ev domain.SessionEvent) {
		log.Printf("%s: device_id=%s user_id=%s timestamp=%s",
			ev.Type, ev.DeviceID, ev.UserID, ev.Timestamp.UTC().Format(time.RFC3339))
	})

	// Initialize handlers
	authH := handlers.NewAuthHandlers(c.SessionSvc)
	cartH := handlers.NewCartHandlers(c.CartSvc)
	checkoutH := handlers.NewCheckoutHandlers(c.CheckoutSvc, c.Tracker)
	adminH := handlers.NewAdminHandlers(c.Backend)
	polH := &handlers.PolicyHandlers{E: c.Casbin.E}

	// Initialize middleware
	deviceMW := middleware.NewDeviceMW(c.DeviceTokenSvc, cfg.DeviceCookieName, cfg.DeviceTTL)
	authMW := middleware.NewAuthMW(c.SessionSvc)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	// Build router
	r := httpx.BuildRouter(authH, cartH, checkoutH, adminH, polH, deviceMW, authMW, casbinMW)

	policies, _ := c.Casbin.E.GetPolicy()
	if len(policies) == 0 {
		c.Casbin.E.AddPolicy("role_administrador", "/admin/*", "(GET)|(POST)|(PUT)|(PATCH)|(DELETE)")
		c.Casbin.E.AddPolicy("role_administrador", "/policies", "(GET)|(POST)|(DELETE)")
		c.Casbin.E.AddPolicy("role_moderador", "/admin/products*", "(GET)|(POST)|(PUT)|(PATCH)|(DELETE)")
		c.Casbin.E.AddPolicy("role_moderador", "/admin/catalogs*", "(GET)|(POST)|(PUT)|(PATCH)|(DELETE)")
		c.Casbin.E.AddPolicy("role_moderador", "/admin/orders*", "(GET)|(POST)|(PUT)|(PATCH)")
		c.Casbin.E.AddPolicy("role_moderador", "/admin/shipping*", "(GET)|(POST)|(PUT)|(PATCH)")
		c.Casbin.E.AddPolicy("role_moderador", "/admin/stock-movements*", "(GET)|(POST)")
		_ = c.Casbin.E.SavePolicy()
		log.Println("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
