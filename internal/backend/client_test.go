package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
	"github.com/nicolasconil/gp-frontend-sub000/internal/mocks"
)

// fakeBackend simulates the commerce backend's auth behavior: it accepts a
// single valid access token/CSRF pair and rotates both on refresh.
type fakeBackend struct {
	mu           sync.Mutex
	refreshCalls int
	meCalls      int
	productCalls int
	lastCSRF     string
	validAccess  string
	validCSRF    string
	refreshFails bool
	meAlways401  bool

	// on401 runs outside the lock before an unauthorized profile response,
	// letting tests hold concurrent requests at the 401.
	on401 func()
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{validAccess: "access-1", validCSRF: "csrf-1"}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.refreshCalls++
		if f.refreshFails {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "session expired"})
			return
		}
		f.validAccess = "access-2"
		f.validCSRF = "csrf-2"
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"access_token": "access-2", "csrf_token": "csrf-2"},
		})
	})

	mux.HandleFunc("/auth/users/me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.meCalls++
		authorized := !f.meAlways401 && r.Header.Get("Authorization") == "Bearer "+f.validAccess
		hook := f.on401
		f.mu.Unlock()

		if !authorized {
			if hook != nil {
				hook()
			}
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"id": "7", "full_name": "Ana García", "email": "ana@example.com", "role": "administrador"},
		})
	})

	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.productCalls++
		f.lastCSRF = r.Header.Get("X-CSRF-Token")
		if r.Header.Get("Authorization") != "Bearer "+f.validAccess || f.lastCSRF != f.validCSRF {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"p1"}`))
	})

	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	return mux
}

// eventRecorder captures emitted session events.
type eventRecorder struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func (r *eventRecorder) Emit(ev domain.SessionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) types() []domain.SessionEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]domain.SessionEventType, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.Type
	}
	return types
}

func seedSession(t *testing.T, repo domain.SessionRepository) {
	t.Helper()
	err := repo.Save(context.Background(), &domain.Session{
		DeviceID: "dev-1",
		Credentials: domain.Credentials{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			CSRFToken:    "csrf-1",
		},
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
}

func TestClient_SingleRefreshThenRetry(t *testing.T) {
	fake := newFakeBackend()
	// Only the rotated pair is valid: the first attempt must 401.
	fake.validAccess = "access-2"
	fake.validCSRF = "csrf-2"

	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	repo := mocks.NewMockSessionRepository()
	seedSession(t, repo)
	events := &eventRecorder{}
	client := NewClient(srv.URL, srv.Client(), repo, events)

	status, _, err := client.Forward(context.Background(), "dev-1", http.MethodPost, "/products", []byte(`{"name":"x"}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 1, fake.refreshCalls, "exactly one refresh attempt")
	assert.Equal(t, 2, fake.productCalls, "exactly one retry of the original request")
	assert.Equal(t, "csrf-2", fake.lastCSRF, "retry must carry a fresh anti-forgery header")

	stored, err := repo.Find(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", stored.Credentials.AccessToken, "rotated credentials must be persisted")
	assert.Contains(t, events.types(), domain.SessionRefreshedEvent)
}

func TestClient_ConcurrentUnauthorizedSharesOneRefresh(t *testing.T) {
	fake := newFakeBackend()
	// Only the rotated pair is valid, so both in-flight requests must 401.
	fake.validAccess = "access-2"
	fake.validCSRF = "csrf-2"

	// Hold both requests at the 401 so neither refreshes before the other
	// has failed with the same stale token.
	barrier := make(chan struct{})
	var arrived int32
	fake.on401 = func() {
		if atomic.AddInt32(&arrived, 1) == 2 {
			close(barrier)
		}
		<-barrier
	}

	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	repo := mocks.NewMockSessionRepository()
	seedSession(t, repo)
	client := NewClient(srv.URL, srv.Client(), repo, &eventRecorder{})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Profile(context.Background(), "dev-1")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, fake.refreshCalls, "the loser must reuse the winner's rotated credentials")
	for i, err := range errs {
		assert.NoError(t, err, "request %d must succeed after the shared refresh", i)
	}

	stored, err := repo.Find(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", stored.Credentials.AccessToken)
}

func TestClient_SecondUnauthorizedIsUnrecoverable(t *testing.T) {
	fake := newFakeBackend()
	fake.meAlways401 = true

	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	repo := mocks.NewMockSessionRepository()
	seedSession(t, repo)
	events := &eventRecorder{}
	client := NewClient(srv.URL, srv.Client(), repo, events)

	_, err := client.Profile(context.Background(), "dev-1")

	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 1, fake.refreshCalls, "no second refresh after the retry fails")
	assert.Equal(t, 2, fake.meCalls)

	_, err = repo.Find(context.Background(), "dev-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "session must be cleared")
	assert.Contains(t, events.types(), domain.SessionExpiredEvent)
}

func TestClient_RefreshFailureClearsSession(t *testing.T) {
	fake := newFakeBackend()
	fake.meAlways401 = true
	fake.refreshFails = true

	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	repo := mocks.NewMockSessionRepository()
	seedSession(t, repo)
	client := NewClient(srv.URL, srv.Client(), repo, &eventRecorder{})

	_, err := client.Profile(context.Background(), "dev-1")

	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, 1, fake.refreshCalls)
	assert.Equal(t, 1, fake.meCalls, "the original request is not retried after a failed refresh")

	_, err = repo.Find(context.Background(), "dev-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestClient_AuthEndpointsNeverRefresh(t *testing.T) {
	fake := newFakeBackend()

	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	repo := mocks.NewMockSessionRepository()
	seedSession(t, repo)
	client := NewClient(srv.URL, srv.Client(), repo, &eventRecorder{})

	err := client.Logout(context.Background(), "dev-1")

	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Zero(t, fake.refreshCalls, "a 401 on logout must not trigger a refresh")

	_, err = repo.Find(context.Background(), "dev-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestClient_GuestCheckoutEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	var orderCSRF, prefCSRF string
	mux.HandleFunc("/auth/csrf-token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"csrf_token": "guest-csrf"})
	})
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		orderCSRF = r.Header.Get("X-CSRF-Token")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "order-9"}})
	})
	mux.HandleFunc("/mercadopago/preference", func(w http.ResponseWriter, r *http.Request) {
		prefCSRF = r.Header.Get("X-CSRF-Token")
		json.NewEncoder(w).Encode(map[string]string{"id": "pref-5"})
	})
	mux.HandleFunc("/orders/public/order-9", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"payment": map[string]string{"status": "aprobado"}})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), mocks.NewMockSessionRepository(), nil)
	ctx := context.Background()

	orderID, err := client.CreateOrder(ctx, &domain.GuestOrder{FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "order-9", orderID)
	assert.Equal(t, "guest-csrf", orderCSRF, "guest mutation still carries the anti-forgery header")

	prefID, err := client.CreatePaymentPreference(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "pref-5", prefID)
	assert.Equal(t, "guest-csrf", prefCSRF)

	status, err := client.OrderPaymentStatus(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentApproved, status)
}
