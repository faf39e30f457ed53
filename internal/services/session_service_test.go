package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
	"github.com/nicolasconil/gp-frontend-sub000/internal/mocks"
)

func TestSessionServiceImpl_Login_Success(t *testing.T) {
	authGw := mocks.NewMockAuthGateway()
	authGw.ProfileFunc = func(ctx context.Context, deviceID string) (*domain.Identity, error) {
		return &domain.Identity{UserID: "7", FullName: "Ana García", Email: "ana@example.com", Role: domain.RoleAdministrador}, nil
	}
	repo := mocks.NewMockSessionRepository()
	svc := NewSessionService(authGw, repo, time.Hour)

	var events []domain.SessionEvent
	unsubscribe := svc.Subscribe(func(ev domain.SessionEvent) { events = append(events, ev) })
	defer unsubscribe()

	sess, err := svc.Login(context.Background(), "dev-1", "ana@example.com", "secret")
	require.NoError(t, err)

	require.NotNil(t, sess.Identity)
	assert.Equal(t, domain.RoleAdministrador, sess.Identity.Role)
	assert.Equal(t, "access", sess.Credentials.AccessToken)

	stored, err := repo.Find(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.NotNil(t, stored.Identity, "identity must be cached after login bootstrap")

	require.Len(t, events, 1)
	assert.Equal(t, domain.SessionLoginEvent, events[0].Type)
	assert.Equal(t, "7", events[0].UserID)
}

func TestSessionServiceImpl_Login_FailureSurfacesBackendMessage(t *testing.T) {
	authGw := mocks.NewMockAuthGateway()
	authGw.LoginFunc = func(ctx context.Context, csrfToken, email, password string) (*domain.Credentials, error) {
		return nil, &domain.BackendError{Status: 401, Message: "Credenciales inválidas"}
	}
	repo := mocks.NewMockSessionRepository()
	svc := NewSessionService(authGw, repo, time.Hour)

	_, err := svc.Login(context.Background(), "dev-1", "ana@example.com", "wrong")

	var be *domain.BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Credenciales inválidas", be.Message)

	_, err = repo.Find(context.Background(), "dev-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "failed login must not mutate state")
}

func TestSessionServiceImpl_Bootstrap_FailureClearsSession(t *testing.T) {
	authGw := mocks.NewMockAuthGateway()
	authGw.ProfileFunc = func(ctx context.Context, deviceID string) (*domain.Identity, error) {
		// Network failure and auth failure are indistinguishable here.
		return nil, errors.New("backend unreachable")
	}
	repo := mocks.NewMockSessionRepository()
	require.NoError(t, repo.Save(context.Background(), &domain.Session{
		DeviceID:    "dev-1",
		Credentials: domain.Credentials{AccessToken: "stale"},
		ExpiresAt:   time.Now().Add(time.Hour),
	}))
	svc := NewSessionService(authGw, repo, time.Hour)

	_, err := svc.Bootstrap(context.Background(), "dev-1")

	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	_, err = repo.Find(context.Background(), "dev-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "stale identity must be cleared")
}

func TestSessionServiceImpl_Logout_AlwaysClearsLocally(t *testing.T) {
	authGw := mocks.NewMockAuthGateway()
	authGw.LogoutFunc = func(ctx context.Context, deviceID string) error {
		return errors.New("network down")
	}
	repo := mocks.NewMockSessionRepository()
	require.NoError(t, repo.Save(context.Background(), &domain.Session{
		DeviceID:  "dev-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	svc := NewSessionService(authGw, repo, time.Hour)

	var events []domain.SessionEvent
	svc.Subscribe(func(ev domain.SessionEvent) { events = append(events, ev) })

	err := svc.Logout(context.Background(), "dev-1")
	require.NoError(t, err, "logout must succeed locally even when the network call fails")

	_, err = repo.Find(context.Background(), "dev-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	require.Len(t, events, 1)
	assert.Equal(t, domain.SessionLogoutEvent, events[0].Type)
}

func TestSessionServiceImpl_Guard(t *testing.T) {
	svc := NewSessionService(mocks.NewMockAuthGateway(), mocks.NewMockSessionRepository(), time.Hour)

	tests := []struct {
		name          string
		session       *domain.Session
		roles         []string
		expectedError error
	}{
		{
			name:          "no session",
			session:       nil,
			roles:         []string{domain.RoleAdministrador},
			expectedError: domain.ErrNotAuthenticated,
		},
		{
			name:          "session without identity",
			session:       &domain.Session{DeviceID: "dev-1"},
			roles:         []string{domain.RoleAdministrador},
			expectedError: domain.ErrNotAuthenticated,
		},
		{
			name:          "wrong role",
			session:       &domain.Session{Identity: &domain.Identity{Role: domain.RoleCliente}},
			roles:         []string{domain.RoleModerador, domain.RoleAdministrador},
			expectedError: domain.ErrInsufficientRole,
		},
		{
			name:    "member of required set",
			session: &domain.Session{Identity: &domain.Identity{Role: domain.RoleModerador}},
			roles:   []string{domain.RoleModerador, domain.RoleAdministrador},
		},
		{
			name:    "no required roles, any identity passes",
			session: &domain.Session{Identity: &domain.Identity{Role: domain.RoleCliente}},
			roles:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Guard(tt.session, tt.roles...)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSessionServiceImpl_SubscribeUnsubscribe(t *testing.T) {
	svc := NewSessionService(mocks.NewMockAuthGateway(), mocks.NewMockSessionRepository(), time.Hour)

	var got int
	unsubscribe := svc.Subscribe(func(ev domain.SessionEvent) { got++ })

	svc.Emit(domain.SessionEvent{Type: domain.SessionExpiredEvent, DeviceID: "dev-1"})
	assert.Equal(t, 1, got)

	unsubscribe()
	svc.Emit(domain.SessionEvent{Type: domain.SessionExpiredEvent, DeviceID: "dev-1"})
	assert.Equal(t, 1, got, "unsubscribed listener must not be notified")
}
