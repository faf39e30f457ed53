package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// AdminHandlers forwards admin CRUD requests to the backend through the
// authenticated gateway, after local business validation where feasible.
type AdminHandlers struct {
	gateway domain.AdminGateway
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(gateway domain.AdminGateway) *AdminHandlers {
	return &AdminHandlers{gateway: gateway}
}

// productPayload is the subset of the product form validated locally before
// submission: duplicate variants and a missing image are business errors
// the backend would reject anyway.
type productPayload struct {
	Image    string                  `json:"image"`
	Variants []domain.ProductVariant `json:"variants"`
}

// Dispatch forwards any /admin/* request to the backend, carrying the
// device's credentials. Product writes are validated first.
func (h *AdminHandlers) Dispatch(c *gin.Context) {
	path := strings.TrimPrefix(c.Request.URL.Path, "/admin")
	if c.Request.URL.RawQuery != "" {
		path += "?" + c.Request.URL.RawQuery
	}

	var body []byte
	if c.Request.Body != nil {
		data, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}
		body = data
	}

	if isProductWrite(c.Request.Method, path) {
		if err := validateProduct(body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	deviceID := c.GetString("device_id")
	status, data, err := h.gateway.Forward(c.Request.Context(), deviceID, c.Request.Method, path, body)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "Session expired",
				"redirect": "/login",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Backend request failed"})
		return
	}

	c.Data(status, "application/json", data)
}

func isProductWrite(method, path string) bool {
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
		return false
	}
	return strings.HasPrefix(path, "/products")
}

// validateProduct enforces the client-side business rules: at least one
// image and no duplicate size/color combination.
func validateProduct(body []byte) error {
	var p productPayload
	if err := json.Unmarshal(body, &p); err != nil {
		// Let the backend report malformed payloads.
		return nil
	}

	if strings.TrimSpace(p.Image) == "" {
		return domain.ErrMissingImage
	}

	seen := make(map[domain.ItemKey]bool, len(p.Variants))
	for _, v := range p.Variants {
		key := domain.ItemKey{Size: v.Size, Color: v.Color}
		if seen[key] {
			return domain.ErrDuplicateVariant
		}
		seen[key] = true
	}
	return nil
}
