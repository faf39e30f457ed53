package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// SessionServiceImpl implements domain.SessionService. It owns one
// consistent view of "who is logged in" per device and fans session-change
// events out to subscribers.
type SessionServiceImpl struct {
	authGw   domain.AuthGateway
	sessions domain.SessionRepository
	ttl      time.Duration

	mu          sync.Mutex
	subscribers map[int]func(domain.SessionEvent)
	nextSub     int
}

// NewSessionService creates a new session service
func NewSessionService(authGw domain.AuthGateway, sessions domain.SessionRepository, ttl time.Duration) *SessionServiceImpl {
	return &SessionServiceImpl{
		authGw:      authGw,
		sessions:    sessions,
		ttl:         ttl,
		subscribers: make(map[int]func(domain.SessionEvent)),
	}
}

// Compile-time interface compliance verification
var (
	_ domain.SessionService   = (*SessionServiceImpl)(nil)
	_ domain.SessionEventSink = (*SessionServiceImpl)(nil)
)

// Bootstrap implements domain.SessionService. Fetches the profile with the
// stored credentials; any failure, network or auth alike, leaves the device
// logged out with no stale cached identity.
func (s *SessionServiceImpl) Bootstrap(ctx context.Context, deviceID string) (*domain.Session, error) {
	sess, err := s.sessions.Find(ctx, deviceID)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}

	identity, err := s.authGw.Profile(ctx, deviceID)
	if err != nil {
		// The interceptor already cleared the record on an expired session;
		// delete covers every other failure path.
		_ = s.sessions.Delete(ctx, deviceID)
		return nil, domain.ErrNotAuthenticated
	}

	sess.Identity = identity
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Login implements domain.SessionService. Performs the anti-forgery
// handshake, then bootstraps the identity. On failure the backend's message
// is surfaced and no state is mutated.
func (s *SessionServiceImpl) Login(ctx context.Context, deviceID, email, password string) (*domain.Session, error) {
	csrf, err := s.authGw.FetchAntiForgeryToken(ctx)
	if err != nil {
		return nil, err
	}

	creds, err := s.authGw.Login(ctx, csrf, email, password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &domain.Session{
		DeviceID:    deviceID,
		Credentials: *creds,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	sess, err = s.Bootstrap(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	log.Printf("USER_LOGIN: device_id=%s user_id=%s role=%s timestamp=%s",
		deviceID, sess.Identity.UserID, sess.Identity.Role, now.UTC().Format(time.RFC3339))
	s.Emit(domain.SessionEvent{
		Type:      domain.SessionLoginEvent,
		DeviceID:  deviceID,
		UserID:    sess.Identity.UserID,
		Role:      sess.Identity.Role,
		Timestamp: now,
	})
	return sess, nil
}

// Logout implements domain.SessionService. The server-side call is best
// effort; local state always clears, so logout never fails.
func (s *SessionServiceImpl) Logout(ctx context.Context, deviceID string) error {
	if err := s.authGw.Logout(ctx, deviceID); err != nil {
		log.Printf("USER_LOGOUT_REMOTE_FAILED: device_id=%s error=%v", deviceID, err)
	}

	if err := s.sessions.Delete(ctx, deviceID); err != nil {
		log.Printf("USER_LOGOUT_CLEANUP_FAILED: device_id=%s error=%v", deviceID, err)
	}

	s.Emit(domain.SessionEvent{
		Type:      domain.SessionLogoutEvent,
		DeviceID:  deviceID,
		Timestamp: time.Now(),
	})
	return nil
}

// Current implements domain.SessionService. Returns the cached identity,
// bootstrapping it if the record has none yet.
func (s *SessionServiceImpl) Current(ctx context.Context, deviceID string) (*domain.Session, error) {
	sess, err := s.sessions.Find(ctx, deviceID)
	if err != nil {
		return nil, domain.ErrNotAuthenticated
	}
	if sess.Identity == nil {
		return s.Bootstrap(ctx, deviceID)
	}
	return sess, nil
}

// Guard implements domain.SessionService. Access requires a session whose
// role is a member of the required set; with no roles given only an
// authenticated identity is required.
func (s *SessionServiceImpl) Guard(session *domain.Session, roles ...string) error {
	if session == nil || session.Identity == nil {
		return domain.ErrNotAuthenticated
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if session.Identity.Role == role {
			return nil
		}
	}
	return domain.ErrInsufficientRole
}

// Subscribe implements domain.SessionService
func (s *SessionServiceImpl) Subscribe(fn func(domain.SessionEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Emit implements domain.SessionEventSink
func (s *SessionServiceImpl) Emit(event domain.SessionEvent) {
	s.mu.Lock()
	fns := make([]func(domain.SessionEvent), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}
