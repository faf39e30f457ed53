package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// Compile-time interface compliance verification
var _ domain.AuthGateway = (*Client)(nil)

// FetchAntiForgeryToken implements domain.AuthGateway. Login cannot carry a
// session-bound token yet, so a fresh one is fetched first.
func (c *Client) FetchAntiForgeryToken(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, "", http.MethodGet, "/auth/csrf-token", nil)
	if err != nil {
		return "", err
	}
	if resp.status != http.StatusOK {
		return "", decodeError(resp)
	}

	var payload struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode csrf response: %w", err)
	}
	return payload.CSRFToken, nil
}

// Login implements domain.AuthGateway. The credentials are exchanged
// against the provided anti-forgery token; on failure the backend's error
// message is surfaced and nothing is mutated.
func (c *Client) Login(ctx context.Context, csrfToken, email, password string) (*domain.Credentials, error) {
	body := mustMarshal(map[string]string{"email": email, "password": password})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytesReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerCSRF, csrfToken)

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resp, err := readResponse(res)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, decodeError(resp)
	}

	var payload struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			CSRFToken    string `json:"csrf_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	creds := &domain.Credentials{
		AccessToken:  payload.Data.AccessToken,
		RefreshToken: payload.Data.RefreshToken,
		CSRFToken:    payload.Data.CSRFToken,
	}
	if creds.CSRFToken == "" {
		creds.CSRFToken = csrfToken
	}
	return creds, nil
}

// Profile implements domain.AuthGateway. Goes through do(), so an expired
// access token is refreshed transparently once.
func (c *Client) Profile(ctx context.Context, deviceID string) (*domain.Identity, error) {
	resp, err := c.do(ctx, deviceID, http.MethodGet, "/auth/users/me", nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, decodeError(resp)
	}

	var payload struct {
		Data struct {
			ID       string `json:"id"`
			FullName string `json:"full_name"`
			Email    string `json:"email"`
			Role     string `json:"role"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}

	return &domain.Identity{
		UserID:   payload.Data.ID,
		FullName: payload.Data.FullName,
		Email:    payload.Data.Email,
		Role:     payload.Data.Role,
	}, nil
}

// Logout implements domain.AuthGateway. Best effort: callers must clear
// local state whether or not this succeeds.
func (c *Client) Logout(ctx context.Context, deviceID string) error {
	resp, err := c.do(ctx, deviceID, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK && resp.status != http.StatusNoContent {
		return decodeError(resp)
	}
	return nil
}
