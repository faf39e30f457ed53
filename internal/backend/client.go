package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// headerCSRF mirrors the anti-forgery cookie into a request header, as the
// backend's CSRF discipline requires on every mutating request.
const headerCSRF = "X-CSRF-Token"

// authExemptPaths must never trigger a silent refresh: a 401 on any of them
// is unrecoverable (chicken-and-egg on login, and refresh/logout failing
// means the session is gone).
var authExemptPaths = map[string]bool{
	"/auth/login":         true,
	"/auth/refresh-token": true,
	"/auth/logout":        true,
}

// Client talks to the commerce backend on behalf of storefront devices.
// Its do() method is the response interceptor: on a 401 it attempts exactly
// one credential refresh and re-issues the original request once; any
// further 401 expires the device's session.
type Client struct {
	baseURL  string
	httpc    *http.Client
	sessions domain.SessionRepository
	events   domain.SessionEventSink

	// refreshMu serializes refreshes per device so concurrent 401s do not
	// race each other into duplicate refresh calls.
	mu        sync.Mutex
	refreshMu map[string]*sync.Mutex
}

// NewClient creates a backend client. httpc is injectable so tests and
// callers control transport and timeouts; nil gets a 10s-timeout default.
func NewClient(baseURL string, httpc *http.Client, sessions domain.SessionRepository, events domain.SessionEventSink) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpc:     httpc,
		sessions:  sessions,
		events:    events,
		refreshMu: make(map[string]*sync.Mutex),
	}
}

// SetEventSink wires the session event sink after construction; the sink
// and the client depend on each other.
func (c *Client) SetEventSink(sink domain.SessionEventSink) { c.events = sink }

type response struct {
	status int
	body   []byte
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// do issues one backend request for the given device. Requests are built
// from method/path/body so a retry after refresh re-issues the original
// request byte for byte, with a fresh anti-forgery header attached.
func (c *Client) do(ctx context.Context, deviceID, method, path string, body []byte) (*response, error) {
	retried := false
	for {
		var sess *domain.Session
		if deviceID != "" {
			found, err := c.sessions.Find(ctx, deviceID)
			if err != nil && err != domain.ErrSessionNotFound {
				return nil, err
			}
			sess = found
		}

		resp, err := c.roundTrip(ctx, sess, method, path, body)
		if err != nil {
			return nil, err
		}
		if resp.status != http.StatusUnauthorized {
			return resp, nil
		}

		// Unrecoverable: auth endpoints never refresh, and a request is
		// resubmitted at most once.
		if authExemptPaths[path] || retried || deviceID == "" {
			c.expire(ctx, deviceID)
			return nil, domain.ErrSessionExpired
		}

		retried = true
		usedAccess := ""
		if sess != nil {
			usedAccess = sess.Credentials.AccessToken
		}
		if err := c.refreshSession(ctx, deviceID, usedAccess); err != nil {
			c.expire(ctx, deviceID)
			return nil, domain.ErrSessionExpired
		}
	}
}

func (c *Client) roundTrip(ctx context.Context, sess *domain.Session, method, path string, body []byte) (*response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		if sess.Credentials.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+sess.Credentials.AccessToken)
		}
		if isMutating(method) && sess.Credentials.CSRFToken != "" {
			req.Header.Set(headerCSRF, sess.Credentials.CSRFToken)
		}
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return &response{status: res.StatusCode, body: data}, nil
}

// refreshSession performs the single refresh call for a device. usedAccess
// is the access token the failed request carried: refreshes for the same
// device are serialized, and a goroutine that waited re-reads the session
// and skips the backend call when that token has already been rotated by
// the winner. Refreshing again would invalidate the winner's fresh pair.
func (c *Client) refreshSession(ctx context.Context, deviceID, usedAccess string) error {
	mu := c.deviceMutex(deviceID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := c.sessions.Find(ctx, deviceID)
	if err != nil {
		return err
	}
	if sess.Credentials.AccessToken != usedAccess {
		// Already rotated; retry with the stored pair.
		return nil
	}

	resp, err := c.roundTrip(ctx, sess, http.MethodPost, "/auth/refresh-token",
		mustMarshal(map[string]string{"refresh_token": sess.Credentials.RefreshToken}))
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return decodeError(resp)
	}

	var payload struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			CSRFToken    string `json:"csrf_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return fmt.Errorf("failed to decode refresh response: %w", err)
	}

	sess.Credentials.AccessToken = payload.Data.AccessToken
	if payload.Data.RefreshToken != "" {
		sess.Credentials.RefreshToken = payload.Data.RefreshToken
	}
	if payload.Data.CSRFToken != "" {
		sess.Credentials.CSRFToken = payload.Data.CSRFToken
	}
	if err := c.sessions.Save(ctx, sess); err != nil {
		return err
	}

	c.emit(domain.SessionEvent{
		Type:      domain.SessionRefreshedEvent,
		DeviceID:  deviceID,
		Timestamp: time.Now(),
	})
	return nil
}

// expire clears the device's session record. Network failure and auth
// failure are deliberately indistinguishable here: both log the device out.
func (c *Client) expire(ctx context.Context, deviceID string) {
	if deviceID == "" {
		return
	}
	if err := c.sessions.Delete(ctx, deviceID); err != nil {
		log.Printf("SESSION_EXPIRE_CLEANUP_FAILED: device_id=%s error=%v", deviceID, err)
	}
	c.emit(domain.SessionEvent{
		Type:      domain.SessionExpiredEvent,
		DeviceID:  deviceID,
		Timestamp: time.Now(),
	})
}

func (c *Client) deviceMutex(deviceID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	mu, ok := c.refreshMu[deviceID]
	if !ok {
		mu = &sync.Mutex{}
		c.refreshMu[deviceID] = mu
	}
	return mu
}

func (c *Client) emit(event domain.SessionEvent) {
	if c.events != nil {
		c.events.Emit(event)
	}
}

func mustMarshal(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func bytesReader(b []byte) io.Reader {
	if b == nil {
		return nil
	}
	return bytes.NewReader(b)
}

func readResponse(res *http.Response) (*response, error) {
	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return &response{status: res.StatusCode, body: data}, nil
}

// decodeError extracts the backend's error message for display, falling
// back to a generic one.
func decodeError(resp *response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := "request failed"
	if err := json.Unmarshal(resp.body, &payload); err == nil {
		if payload.Error != "" {
			msg = payload.Error
		} else if payload.Message != "" {
			msg = payload.Message
		}
	}
	return &domain.BackendError{Status: resp.status, Message: msg}
}
