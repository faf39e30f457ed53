package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// CartHandlers handles shopping cart HTTP requests.
type CartHandlers struct {
	carts domain.CartService
}

// NewCartHandlers creates new cart handlers
func NewCartHandlers(carts domain.CartService) *CartHandlers {
	return &CartHandlers{carts: carts}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Image     string `json:"image"`
	Price     string `json:"price" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantityRequest represents a quantity update request
type UpdateQuantityRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// Get handles reading the cart with its computed total.
func (h *CartHandlers) Get(c *gin.Context) {
	deviceID := c.GetString("device_id")
	cart, err := h.carts.Get(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	total, err := h.carts.Total(cart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute cart total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"items": cart.Items,
			"total": total,
		},
	})
}

// AddItem handles adding a line item. An existing product/size/color key
// has its quantity incremented.
func (h *CartHandlers) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID := c.GetString("device_id")
	item := domain.CartItem{
		ItemKey:  domain.ItemKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color},
		Name:     req.Name,
		Image:    req.Image,
		Price:    req.Price,
		Quantity: req.Quantity,
	}

	cart, err := h.carts.Add(c.Request.Context(), deviceID, item)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"items": cart.Items}})
}

// UpdateQuantity handles replacing a line item's quantity.
func (h *CartHandlers) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID := c.GetString("device_id")
	key := domain.ItemKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}
	cart, err := h.carts.UpdateQuantity(c.Request.Context(), deviceID, key, req.Quantity)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"items": cart.Items}})
}

// RemoveItem handles removing a line item by its composite key.
func (h *CartHandlers) RemoveItem(c *gin.Context) {
	key := domain.ItemKey{
		ProductID: c.Query("product_id"),
		Size:      c.Query("size"),
		Color:     c.Query("color"),
	}
	if key.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	deviceID := c.GetString("device_id")
	cart, err := h.carts.Remove(c.Request.Context(), deviceID, key)
	if err != nil {
		h.writeCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"items": cart.Items}})
}

// Clear handles emptying the cart.
func (h *CartHandlers) Clear(c *gin.Context) {
	deviceID := c.GetString("device_id")
	if err := h.carts.Clear(c.Request.Context(), deviceID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Cart cleared"}})
}

func (h *CartHandlers) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart operation failed"})
	}
}
