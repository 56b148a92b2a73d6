package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/session"
)

//
// --- Cart Handlers (guest or logged in) ---
//

var quantityLimitMsg = fmt.Sprintf("Quantity cannot exceed %d", models.MaxCartQuantity)

// AddToCartInput is the optional body of POST /api/cart/:productId.
type AddToCartInput struct {
	Quantity int `json:"quantity" binding:"omitempty,gt=0,lte=10000"`
}

// SetQuantityInput is the body of PUT /api/cart/:productId.
type SetQuantityInput struct {
	Quantity *int `json:"quantity" binding:"required,gte=0,lte=10000"`
}

// renderCart answers with the current cart for the session.
func (h *Handlers) renderCart(c *gin.Context, status int) {
	sess := session.Get(c)
	ctx := c.Request.Context()

	var (
		cart *models.Cart
		err  error
	)
	if sess.LoggedIn() {
		cart, err = h.Store.UserCart(ctx, sess.UserID())
	} else {
		cart, err = h.Store.GuestCart(ctx, sess.GuestCart)
	}
	if err != nil {
		h.serverError(c, err, "Failed to load cart")
		return
	}
	c.JSON(status, cart)
}

// GetCart handles GET /api/cart. It never creates a cart.
func (h *Handlers) GetCart(c *gin.Context) {
	h.renderCart(c, http.StatusOK)
}

// AddToCart adds one (or the requested quantity) of a product.
func (h *Handlers) AddToCart(c *gin.Context) {
	// 1. --- Get IDs ---
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	input := AddToCartInput{Quantity: 1}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity == 0 {
			input.Quantity = 1
		}
	}

	sess := session.Get(c)
	ctx := c.Request.Context()

	// 2. --- Logged in: write to the cart order ---
	if sess.LoggedIn() {
		if err := h.Store.AddToUserCart(ctx, sess.UserID(), productID, input.Quantity); err != nil {
			h.storeError(c, err, "Failed to update cart")
			return
		}
		h.renderCart(c, http.StatusOK)
		return
	}

	// 3. --- Guest: write to the session ---
	exists, err := h.Store.ProductExists(ctx, productID)
	if err != nil {
		h.serverError(c, err, "Failed to update cart")
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if !sess.AddToGuestCart(productID, input.Quantity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": quantityLimitMsg})
		return
	}
	if !h.saveSession(c, sess) {
		return
	}
	h.renderCart(c, http.StatusOK)
}

// SetCartQuantity sets a line to an exact quantity; 0 removes it.
func (h *Handlers) SetCartQuantity(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var input SetQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be a number between 0 and 10000"})
		return
	}
	qty := *input.Quantity

	sess := session.Get(c)
	ctx := c.Request.Context()

	if sess.LoggedIn() {
		if err := h.Store.SetUserCartQuantity(ctx, sess.UserID(), productID, qty); err != nil {
			h.storeError(c, err, "Failed to update cart")
			return
		}
		h.renderCart(c, http.StatusOK)
		return
	}

	if qty > 0 {
		exists, err := h.Store.ProductExists(ctx, productID)
		if err != nil {
			h.serverError(c, err, "Failed to update cart")
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
	}
	if !sess.SetGuestCartQuantity(productID, qty) {
		c.JSON(http.StatusBadRequest, gin.H{"error": quantityLimitMsg})
		return
	}
	if !h.saveSession(c, sess) {
		return
	}
	h.renderCart(c, http.StatusOK)
}

// RemoveFromCart succeeds even when the line does not exist.
func (h *Handlers) RemoveFromCart(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	sess := session.Get(c)

	if sess.LoggedIn() {
		if err := h.Store.RemoveFromUserCart(c.Request.Context(), sess.UserID(), productID); err != nil {
			h.serverError(c, err, "Failed to update cart")
			return
		}
	} else if len(sess.GuestCart) > 0 {
		sess.RemoveFromGuestCart(productID)
		if !h.saveSession(c, sess) {
			return
		}
	}
	h.renderCart(c, http.StatusOK)
}
