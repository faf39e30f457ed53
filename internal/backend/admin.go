package backend

import (
	"context"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// Compile-time interface compliance verification
var _ domain.AdminGateway = (*Client)(nil)

// Forward implements domain.AdminGateway. The request goes through do(), so
// it carries the device's bearer token plus the anti-forgery header on
// mutations, and gets the single-refresh-then-retry treatment on 401.
func (c *Client) Forward(ctx context.Context, deviceID, method, path string, body []byte) (int, []byte, error) {
	resp, err := c.do(ctx, deviceID, method, path, body)
	if err != nil {
		return 0, nil, err
	}
	return resp.status, resp.body, nil
}
