package session

import (
	"github.com/01moynul/storefront-golang/internal/models"
)

// User is the identity stored in a logged-in session.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Data is the persisted session payload.
type Data struct {
	User           *User             `json:"user,omitempty"`
	GuestFavorites []int64           `json:"guestFavorites,omitempty"`
	GuestCart      []models.CartLine `json:"guestCart,omitempty"`
}

// Session is the request-scoped view of one browser session. Handlers
// mutate it and then call Store.Save explicitly.
type Session struct {
	ID string
	Data

	persisted bool
}

// Persisted reports whether the session has a stored row.
func (s *Session) Persisted() bool {
	return s.persisted
}

// LoggedIn reports whether a user is attached.
func (s *Session) LoggedIn() bool {
	return s.User != nil
}

// UserID returns the attached user's id, or 0.
func (s *Session) UserID() int64 {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}

// AddGuestFavorite appends productID unless already present.
func (s *Session) AddGuestFavorite(productID int64) {
	for _, id := range s.GuestFavorites {
		if id == productID {
			return
		}
	}
	s.GuestFavorites = append(s.GuestFavorites, productID)
}

func (s *Session) RemoveGuestFavorite(productID int64) {
	kept := s.GuestFavorites[:0]
	for _, id := range s.GuestFavorites {
		if id != productID {
			kept = append(kept, id)
		}
	}
	s.GuestFavorites = kept
}

// AddToGuestCart increases the line's quantity by qty, adding the line if
// missing. It returns false and changes nothing when the result would fall
// outside 1..MaxCartQuantity.
func (s *Session) AddToGuestCart(productID int64, qty int) bool {
	if qty <= 0 || qty > models.MaxCartQuantity {
		return false
	}
	for i := range s.GuestCart {
		if s.GuestCart[i].ProductID == productID {
			if s.GuestCart[i].Quantity > models.MaxCartQuantity-qty {
				return false
			}
			s.GuestCart[i].Quantity += qty
			return true
		}
	}
	s.GuestCart = append(s.GuestCart, models.CartLine{ProductID: productID, Quantity: qty})
	return true
}

// SetGuestCartQuantity sets the line to qty; 0 or less removes it. Values
// over MaxCartQuantity are refused.
func (s *Session) SetGuestCartQuantity(productID int64, qty int) bool {
	if qty > models.MaxCartQuantity {
		return false
	}
	if qty <= 0 {
		s.RemoveFromGuestCart(productID)
		return true
	}
	for i := range s.GuestCart {
		if s.GuestCart[i].ProductID == productID {
			s.GuestCart[i].Quantity = qty
			return true
		}
	}
	s.GuestCart = append(s.GuestCart, models.CartLine{ProductID: productID, Quantity: qty})
	return true
}

func (s *Session) RemoveFromGuestCart(productID int64) {
	kept := s.GuestCart[:0]
	for _, l := range s.GuestCart {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	s.GuestCart = kept
}

// TakeGuestData returns the guest collections and clears them.
func (s *Session) TakeGuestData() ([]int64, []models.CartLine) {
	favs, cart := s.GuestFavorites, s.GuestCart
	s.GuestFavorites, s.GuestCart = nil, nil
	return favs, cart
}
