package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using Redis.
// One session record per device; at most one session is active per device.
type SessionRepositoryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *redis.Client, ttl time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

// Find implements domain.SessionRepository
func (r *SessionRepositoryImpl) Find(ctx context.Context, deviceID string) (*domain.Session, error) {
	key := r.prefix + deviceID
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Check if expired
	if session.ExpiresAt.Before(time.Now()) {
		r.client.Del(ctx, key)
		return nil, domain.ErrSessionExpired
	}

	return &session, nil
}

// Save implements domain.SessionRepository
func (r *SessionRepositoryImpl) Save(ctx context.Context, session *domain.Session) error {
	key := r.prefix + session.DeviceID
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return r.client.Set(ctx, key, data, r.ttl).Err()
}

// Delete implements domain.SessionRepository
func (r *SessionRepositoryImpl) Delete(ctx context.Context, deviceID string) error {
	key := r.prefix + deviceID
	return r.client.Del(ctx, key).Err()
}
