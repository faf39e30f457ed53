package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// CartRepositoryImpl implements domain.CartRepository using Redis. The cart
// key is per device; the TTL is refreshed on every save so active carts
// never expire mid-session.
type CartRepositoryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCartRepository creates a new cart repository
func NewCartRepository(client *redis.Client, ttl time.Duration) domain.CartRepository {
	return &CartRepositoryImpl{
		client: client,
		prefix: "cart:",
		ttl:    ttl,
	}
}

// Get implements domain.CartRepository. A missing key is an empty cart, not
// an error: carts are created empty on first touch.
func (r *CartRepositoryImpl) Get(ctx context.Context, deviceID string) (*domain.Cart, error) {
	key := r.prefix + deviceID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return &domain.Cart{DeviceID: deviceID}, nil
		}
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return &cart, nil
}

// Save implements domain.CartRepository
func (r *CartRepositoryImpl) Save(ctx context.Context, cart *domain.Cart) error {
	key := r.prefix + cart.DeviceID
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// Delete implements domain.CartRepository
func (r *CartRepositoryImpl) Delete(ctx context.Context, deviceID string) error {
	key := r.prefix + deviceID
	return r.client.Del(ctx, key).Err()
}
