package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/session"
)

// GetFavorites returns the user's favorites, or the guest's session list
// rendered against current products.
func (h *Handlers) GetFavorites(c *gin.Context) {
	sess := session.Get(c)
	ctx := c.Request.Context()

	var (
		items []models.Product
		err   error
	)
	if sess.LoggedIn() {
		items, err = h.Store.ListFavorites(ctx, sess.UserID())
	} else {
		items, err = h.Store.ProductsByIDs(ctx, sess.GuestFavorites)
	}
	if err != nil {
		h.serverError(c, err, "Failed to load favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"loggedIn": sess.LoggedIn(), "items": items})
}

func (h *Handlers) AddFavorite(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	sess := session.Get(c)
	ctx := c.Request.Context()

	if sess.LoggedIn() {
		if err := h.Store.AddFavorite(ctx, sess.UserID(), productID); err != nil {
			h.storeError(c, err, "Failed to add favorite")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Added to favorites"})
		return
	}

	exists, err := h.Store.ProductExists(ctx, productID)
	if err != nil {
		h.serverError(c, err, "Failed to add favorite")
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	sess.AddGuestFavorite(productID)
	if !h.saveSession(c, sess) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to favorites"})
}

// RemoveFavorite succeeds whether or not the product was a favorite.
func (h *Handlers) RemoveFavorite(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	sess := session.Get(c)

	if sess.LoggedIn() {
		if err := h.Store.RemoveFavorite(c.Request.Context(), sess.UserID(), productID); err != nil {
			h.serverError(c, err, "Failed to remove favorite")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
		return
	}

	if len(sess.GuestFavorites) > 0 {
		sess.RemoveGuestFavorite(productID)
		if !h.saveSession(c, sess) {
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}
