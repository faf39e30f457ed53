package app

import (
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
	"github.com/nicolasconil/gp-frontend-sub000/internal/backend"
	"github.com/nicolasconil/gp-frontend-sub000/internal/config"
	"github.com/nicolasconil/gp-frontend-sub000/internal/infrastructure/auth"
	"github.com/nicolasconil/gp-frontend-sub000/internal/infrastructure/database"
	"github.com/nicolasconil/gp-frontend-sub000/internal/infrastructure/repositories"
	"github.com/nicolasconil/gp-frontend-sub000/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	RedisClient *redis.Client
	Backend     *backend.Client
	Casbin      *auth.CasbinService

	// Repositories
	SessionRepo domain.SessionRepository
	CartRepo    domain.CartRepository

	// Services
	DeviceTokenSvc domain.DeviceTokenService
	SessionSvc     *services.SessionServiceImpl
	CartSvc        domain.CartService
	CheckoutSvc    domain.CheckoutService
	Tracker        domain.PaymentTracker
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	c.RedisClient = database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client

	cas, err := auth.NewCasbinService(cfg.CasbinModelPath, cfg.CasbinPolicyPath)
	if err != nil {
		return nil, err
	}
	c.Casbin = cas

	c.SessionRepo = repositories.NewSessionRepository(c.RedisClient, cfg.SessionTTL)
	c.CartRepo = repositories.NewCartRepository(c.RedisClient, cfg.CartTTL)

	c.DeviceTokenSvc = auth.NewDeviceTokenService(cfg.DeviceSecret, cfg.DeviceIssuer, cfg.DeviceTTL)

	// The client needs the session service as its event sink and the
	// service needs the client as its auth gateway; build the client
	// first and close the loop afterwards.
	httpc := &http.Client{Timeout: cfg.BackendTimeout}
	c.Backend = backend.NewClient(cfg.BackendBaseURL, httpc, c.SessionRepo, nil)
	c.SessionSvc = services.NewSessionService(c.Backend, c.SessionRepo, cfg.SessionTTL)
	c.Backend.SetEventSink(c.SessionSvc)

	c.CartSvc = services.NewCartService(c.CartRepo)
	c.CheckoutSvc = services.NewCheckoutService(c.Backend, c.CartSvc, c.SessionSvc, cfg.PaymentRedirect)
	c.Tracker = services.NewPaymentTracker(c.Backend, cfg.PollInterval, cfg.PollAttempts)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		return c.RedisClient.Close()
	}
	return nil
}
