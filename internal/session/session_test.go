package session

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/01moynul/storefront-golang/internal/models"
)

func TestGuestFavorites(t *testing.T) {
	var s Session
	s.AddGuestFavorite(3)
	s.AddGuestFavorite(5)
	s.AddGuestFavorite(3)
	assert.Equal(t, []int64{3, 5}, s.GuestFavorites)

	s.RemoveGuestFavorite(3)
	s.RemoveGuestFavorite(42)
	assert.Equal(t, []int64{5}, s.GuestFavorites)
}

func TestGuestCartOperations(t *testing.T) {
	var s Session

	s.AddToGuestCart(1, 1)
	s.AddToGuestCart(1, 1)
	s.AddToGuestCart(2, 3)
	assert.Equal(t, []models.CartLine{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 3}}, s.GuestCart)

	s.SetGuestCartQuantity(2, 7)
	s.SetGuestCartQuantity(9, 1)
	assert.Equal(t, []models.CartLine{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 7}, {ProductID: 9, Quantity: 1}}, s.GuestCart)

	s.SetGuestCartQuantity(1, 0)
	s.RemoveFromGuestCart(9)
	s.RemoveFromGuestCart(100)
	assert.Equal(t, []models.CartLine{{ProductID: 2, Quantity: 7}}, s.GuestCart)
}

func TestGuestCartQuantityLimit(t *testing.T) {
	var s Session

	assert.True(t, s.AddToGuestCart(1, models.MaxCartQuantity))
	assert.False(t, s.AddToGuestCart(1, 1), "sum over the cap is refused")
	assert.False(t, s.AddToGuestCart(2, math.MaxInt))
	assert.False(t, s.AddToGuestCart(2, 0))
	assert.False(t, s.SetGuestCartQuantity(1, models.MaxCartQuantity+1))
	assert.Equal(t, []models.CartLine{{ProductID: 1, Quantity: models.MaxCartQuantity}}, s.GuestCart)

	assert.True(t, s.SetGuestCartQuantity(1, 5))
	assert.True(t, s.AddToGuestCart(1, models.MaxCartQuantity-5))
	assert.Equal(t, models.MaxCartQuantity, s.GuestCart[0].Quantity)
}

func TestTakeGuestData(t *testing.T) {
	s := Session{Data: Data{
		GuestFavorites: []int64{1},
		GuestCart:      []models.CartLine{{ProductID: 1, Quantity: 2}},
	}}

	favs, cart := s.TakeGuestData()
	assert.Equal(t, []int64{1}, favs)
	assert.Len(t, cart, 1)
	assert.Empty(t, s.GuestFavorites)
	assert.Empty(t, s.GuestCart)
}

func TestUserHelpers(t *testing.T) {
	var s Session
	assert.False(t, s.LoggedIn())
	assert.Zero(t, s.UserID())

	s.User = &User{ID: 7, Username: "ann", Role: models.RoleCustomer}
	assert.True(t, s.LoggedIn())
	assert.Equal(t, int64(7), s.UserID())
}
