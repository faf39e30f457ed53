package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

// CartServiceImpl implements domain.CartService. The cart is persisted
// after every mutation; adding an existing product/size/color key increments
// its quantity rather than duplicating the line item.
type CartServiceImpl struct {
	carts domain.CartRepository
}

// NewCartService creates a new cart service
func NewCartService(carts domain.CartRepository) domain.CartService {
	return &CartServiceImpl{carts: carts}
}

// Get implements domain.CartService
func (s *CartServiceImpl) Get(ctx context.Context, deviceID string) (*domain.Cart, error) {
	return s.carts.Get(ctx, deviceID)
}

// Add implements domain.CartService
func (s *CartServiceImpl) Add(ctx context.Context, deviceID string, item domain.CartItem) (*domain.Cart, error) {
	if item.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := ParseLocalizedPrice(item.Price); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	if i := cart.Find(item.ItemKey); i >= 0 {
		cart.Items[i].Quantity += item.Quantity
	} else {
		cart.Items = append(cart.Items, item)
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity implements domain.CartService
func (s *CartServiceImpl) UpdateQuantity(ctx context.Context, deviceID string, key domain.ItemKey, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	cart, err := s.carts.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	i := cart.Find(key)
	if i < 0 {
		return nil, domain.ErrItemNotFound
	}
	cart.Items[i].Quantity = quantity

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Remove implements domain.CartService. Idempotent: removing an absent key
// leaves the cart unchanged.
func (s *CartServiceImpl) Remove(ctx context.Context, deviceID string, key domain.ItemKey) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ItemKey != key {
			kept = append(kept, it)
		}
	}
	cart.Items = kept

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear implements domain.CartService
func (s *CartServiceImpl) Clear(ctx context.Context, deviceID string) error {
	return s.carts.Delete(ctx, deviceID)
}

// Total implements domain.CartService
func (s *CartServiceImpl) Total(cart *domain.Cart) (float64, error) {
	var total float64
	for _, it := range cart.Items {
		price, err := ParseLocalizedPrice(it.Price)
		if err != nil {
			return 0, err
		}
		total += price * float64(it.Quantity)
	}
	return total, nil
}

// ParseLocalizedPrice parses the backend's locale-formatted price strings,
// e.g. "1.234,56" -> 1234.56. A comma is the decimal separator and dots are
// thousands separators; plain decimal strings ("1234.56") also parse.
func ParseLocalizedPrice(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		}
		return -1
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return 0, domain.ErrInvalidPrice
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, domain.ErrInvalidPrice
	}
	return value, nil
}
