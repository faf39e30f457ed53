package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolasconil/gp-frontend-sub000/domain"
)

func TestCartRepositoryImpl_Get_MissingIsEmptyCart(t *testing.T) {
	repo := NewCartRepository(newTestRedis(t), time.Hour)

	cart, err := repo.Get(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "dev-1", cart.DeviceID)
	assert.True(t, cart.IsEmpty())
}

func TestCartRepositoryImpl_SaveAndGet(t *testing.T) {
	repo := NewCartRepository(newTestRedis(t), time.Hour)
	ctx := context.Background()

	cart := &domain.Cart{
		DeviceID: "dev-1",
		Items: []domain.CartItem{
			{
				ItemKey:  domain.ItemKey{ProductID: "p1", Size: "42", Color: "negro"},
				Name:     "Zapatilla Urbana",
				Price:    "1.234,56",
				Quantity: 2,
			},
		},
	}
	require.NoError(t, repo.Save(ctx, cart))
	assert.False(t, cart.UpdatedAt.IsZero(), "save must stamp the cart")

	found, err := repo.Get(ctx, "dev-1")
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "1.234,56", found.Items[0].Price, "price is stored verbatim as displayed")
	assert.Equal(t, 2, found.Items[0].Quantity)

	idx := found.Find(domain.ItemKey{ProductID: "p1", Size: "42", Color: "negro"})
	assert.Equal(t, 0, idx)
}

func TestCartRepositoryImpl_Delete(t *testing.T) {
	repo := NewCartRepository(newTestRedis(t), time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Cart{
		DeviceID: "dev-1",
		Items: []domain.CartItem{
			{ItemKey: domain.ItemKey{ProductID: "p1", Size: "42", Color: "negro"}, Price: "100", Quantity: 1},
		},
	}))
	require.NoError(t, repo.Delete(ctx, "dev-1"))

	cart, err := repo.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestCartRepositoryImpl_CartsAreIsolatedPerDevice(t *testing.T) {
	repo := NewCartRepository(newTestRedis(t), time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Cart{
		DeviceID: "dev-1",
		Items: []domain.CartItem{
			{ItemKey: domain.ItemKey{ProductID: "p1", Size: "42", Color: "negro"}, Price: "100", Quantity: 1},
		},
	}))

	other, err := repo.Get(ctx, "dev-2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}
