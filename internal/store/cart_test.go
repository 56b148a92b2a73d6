package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/models"
)

func countCartOrders(t *testing.T, f *fixture, userID int64) int {
	t.Helper()
	var n int
	require.NoError(t, f.DB.QueryRow(
		"SELECT COUNT(*) FROM orders WHERE user_id = ? AND status = 'cart'", userID,
	).Scan(&n))
	return n
}

func TestUserCartAddTwiceIncrementsOneRow(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ann")
	pid := f.product(t, "Sneaker", 50, f.uncategorized)

	cart, err := f.UserCart(f.ctx, uid)
	require.NoError(t, err)
	assert.True(t, cart.LoggedIn)
	assert.Empty(t, cart.Items)
	assert.Zero(t, countCartOrders(t, f, uid), "reading must not create a cart")

	require.NoError(t, f.AddToUserCart(f.ctx, uid, pid, 1))
	require.NoError(t, f.AddToUserCart(f.ctx, uid, pid, 1))

	cart, err = f.UserCart(f.ctx, uid)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 100.0, cart.Items[0].LineTotal)
	assert.Equal(t, 100.0, cart.Total)
	assert.Equal(t, 1, countCartOrders(t, f, uid))

	assert.ErrorIs(t, f.AddToUserCart(f.ctx, uid, 999, 1), ErrProductNotFound)
	assert.ErrorIs(t, f.AddToUserCart(f.ctx, uid, pid, 0), ErrInvalidInput)
}

func TestUserCartSetQuantityAndRemove(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ann")
	a := f.product(t, "A", 10, f.uncategorized)
	b := f.product(t, "B", 4, f.uncategorized)

	require.NoError(t, f.SetUserCartQuantity(f.ctx, uid, a, 3), "missing line is inserted")
	require.NoError(t, f.AddToUserCart(f.ctx, uid, b, 1))
	require.NoError(t, f.SetUserCartQuantity(f.ctx, uid, a, 5))

	cart, err := f.UserCart(f.ctx, uid)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, b, cart.Items[0].ID, "newest line first")
	assert.Equal(t, 54.0, cart.Total)

	require.NoError(t, f.SetUserCartQuantity(f.ctx, uid, a, 0))
	require.NoError(t, f.RemoveFromUserCart(f.ctx, uid, b))
	require.NoError(t, f.RemoveFromUserCart(f.ctx, uid, b), "removing a missing line is fine")
	require.NoError(t, f.RemoveFromUserCart(f.ctx, f.user(t, "bob"), b), "removing without a cart is fine")

	cart, err = f.UserCart(f.ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	assert.ErrorIs(t, f.SetUserCartQuantity(f.ctx, uid, a, -1), ErrInvalidInput)
	assert.ErrorIs(t, f.SetUserCartQuantity(f.ctx, uid, 999, 2), ErrProductNotFound)
}

func TestGuestCartRendering(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 2.5, f.uncategorized)

	cart, err := f.GuestCart(f.ctx, []models.CartLine{
		{ProductID: a, Quantity: 4},
		{ProductID: 999, Quantity: 1},
	})
	require.NoError(t, err)
	assert.False(t, cart.LoggedIn)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 10.0, cart.Total)
	assert.Equal(t, "A", cart.Items[0].Name)
}

func TestMergeGuestData(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ann")
	a := f.product(t, "A", 10, f.uncategorized)
	b := f.product(t, "B", 3, f.uncategorized)

	require.NoError(t, f.AddFavorite(f.ctx, uid, a))
	require.NoError(t, f.AddToUserCart(f.ctx, uid, a, 2))

	err := f.MergeGuestData(f.ctx, uid,
		[]int64{a, b, 999},
		[]models.CartLine{{ProductID: a, Quantity: 3}, {ProductID: b, Quantity: 1}, {ProductID: 999, Quantity: 1}},
	)
	require.NoError(t, err)

	favs, err := f.ListFavorites(f.ctx, uid)
	require.NoError(t, err)
	assert.Len(t, favs, 2, "duplicates ignored, deleted products skipped")

	cart, err := f.UserCart(f.ctx, uid)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	byID := map[int64]models.CartItem{}
	for _, it := range cart.Items {
		byID[it.ID] = it
	}
	assert.Equal(t, 5, byID[a].Quantity, "quantities summed")
	assert.Equal(t, 50.0, byID[a].LineTotal)
	assert.Equal(t, 1, byID[b].Quantity)
	assert.Equal(t, 1, countCartOrders(t, f, uid))
}

func TestMergeRefreshesSnapshot(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ann")
	p := &models.Product{Name: "Cap", Price: 10, CategoryID: f.uncategorized, PublishingDate: "2024-01-01"}
	require.NoError(t, f.CreateProduct(f.ctx, p))
	require.NoError(t, f.AddToUserCart(f.ctx, uid, p.ID, 1))

	p.Name, p.Price = "Cap v2", 12
	require.NoError(t, f.UpdateProduct(f.ctx, p))

	cart, err := f.UserCart(f.ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Cap", cart.Items[0].Name, "snapshot survives product edits")

	require.NoError(t, f.MergeGuestCart(f.ctx, uid, []models.CartLine{{ProductID: p.ID, Quantity: 1}}))
	cart, err = f.UserCart(f.ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Cap v2", cart.Items[0].Name)
	assert.Equal(t, 24.0, cart.Items[0].LineTotal)
}

func TestUserCartQuantityLimit(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ann")
	pid := f.product(t, "Sock", 2, f.uncategorized)

	assert.ErrorIs(t, f.AddToUserCart(f.ctx, uid, pid, math.MaxInt), ErrQuantityLimit)
	assert.Zero(t, countCartOrders(t, f, uid), "rejected first add leaves no cart behind")

	require.NoError(t, f.AddToUserCart(f.ctx, uid, pid, models.MaxCartQuantity-1))
	require.NoError(t, f.AddToUserCart(f.ctx, uid, pid, 1))
	err := f.AddToUserCart(f.ctx, uid, pid, 1)
	assert.ErrorIs(t, err, ErrQuantityLimit)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, f.SetUserCartQuantity(f.ctx, uid, pid, models.MaxCartQuantity+1), ErrQuantityLimit)

	cart, err := f.UserCart(f.ctx, uid)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, models.MaxCartQuantity, cart.Items[0].Quantity)
	assert.Equal(t, float64(2*models.MaxCartQuantity), cart.Total)

	_, err = f.Checkout(f.ctx, uid, CheckoutInput{})
	require.NoError(t, err)
	orders, err := f.ListAdminOrders(f.ctx, models.AdminOrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.MaxCartQuantity, orders[0].Items[0].Quantity)
}

func TestMergeGuestCartClampsQuantity(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "ann")
	pid := f.product(t, "Sock", 2, f.uncategorized)

	require.NoError(t, f.AddToUserCart(f.ctx, uid, pid, models.MaxCartQuantity-3))
	require.NoError(t, f.MergeGuestCart(f.ctx, uid, []models.CartLine{{ProductID: pid, Quantity: 10}}))

	cart, err := f.UserCart(f.ctx, uid)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, models.MaxCartQuantity, cart.Items[0].Quantity)
}
