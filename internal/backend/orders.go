package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// Compile-time interface compliance verification
var _ domain.OrderGateway = (*Client)(nil)

// CreateOrder implements domain.OrderGateway. Guest checkout needs no
// session, but the CSRF discipline still applies to the mutating call, so a
// fresh anti-forgery token is fetched for it.
func (c *Client) CreateOrder(ctx context.Context, order *domain.GuestOrder) (string, error) {
	csrf, err := c.FetchAntiForgeryToken(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOrderNotCreated, err)
	}

	resp, err := c.guestPost(ctx, "/orders", csrf, mustMarshal(order))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOrderNotCreated, err)
	}
	if resp.status != http.StatusOK && resp.status != http.StatusCreated {
		return "", fmt.Errorf("%w: %v", domain.ErrOrderNotCreated, decodeError(resp))
	}

	var payload struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return "", fmt.Errorf("%w: failed to decode order response", domain.ErrOrderNotCreated)
	}
	if payload.Data.ID == "" {
		return "", domain.ErrOrderNotCreated
	}
	return payload.Data.ID, nil
}

// CreatePaymentPreference implements domain.OrderGateway. The returned
// identifier is single use; it is never persisted.
func (c *Client) CreatePaymentPreference(ctx context.Context, orderID string) (string, error) {
	csrf, err := c.FetchAntiForgeryToken(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPreferenceNotCreated, err)
	}

	resp, err := c.guestPost(ctx, "/mercadopago/preference", csrf, mustMarshal(map[string]string{"order_id": orderID}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPreferenceNotCreated, err)
	}
	if resp.status != http.StatusOK && resp.status != http.StatusCreated {
		return "", fmt.Errorf("%w: %v", domain.ErrPreferenceNotCreated, decodeError(resp))
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil || payload.ID == "" {
		return "", domain.ErrPreferenceNotCreated
	}
	return payload.ID, nil
}

// OrderPaymentStatus implements domain.OrderGateway.
func (c *Client) OrderPaymentStatus(ctx context.Context, orderID string) (domain.PaymentStatus, error) {
	resp, err := c.do(ctx, "", http.MethodGet, "/orders/public/"+url.PathEscape(orderID), nil)
	if err != nil {
		return "", err
	}
	if resp.status != http.StatusOK {
		return "", decodeError(resp)
	}

	var payload struct {
		Payment struct {
			Status domain.PaymentStatus `json:"status"`
		} `json:"payment"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode order status: %w", err)
	}
	return payload.Payment.Status, nil
}

// guestPost issues an unauthenticated mutating request carrying only the
// anti-forgery header.
func (c *Client) guestPost(ctx context.Context, path, csrf string, body []byte) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytesReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerCSRF, csrf)

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return readResponse(res)
}
