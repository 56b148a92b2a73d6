package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/metrics"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/session"
	"github.com/01moynul/storefront-golang/internal/store"
)

// CheckoutInput is the optional body of both checkout endpoints. Buyer
// fields left out fall back to the stored profile (logged in only).
type CheckoutInput struct {
	PaymentMethod *string `json:"paymentMethod"`
	models.BuyerDetails
}

// bindCheckout accepts an empty body.
func bindCheckout(c *gin.Context) (store.CheckoutInput, bool) {
	var input CheckoutInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return store.CheckoutInput{}, false
		}
	}
	return store.CheckoutInput{PaymentMethod: input.PaymentMethod, Buyer: input.BuyerDetails}, true
}

// Checkout handles POST /api/orders/checkout. Calling it again after a
// successful checkout returns the same order.
func (h *Handlers) Checkout(c *gin.Context) {
	input, ok := bindCheckout(c)
	if !ok {
		return
	}

	res, err := h.Store.Checkout(c.Request.Context(), session.Get(c).UserID(), input)
	if err != nil {
		h.storeError(c, err, "Checkout failed")
		return
	}

	if res.AlreadyCreated {
		c.JSON(http.StatusOK, gin.H{"orderId": res.OrderID, "message": "Order already created", "alreadyCreated": true})
		return
	}
	metrics.RecordCheckout("user")
	c.JSON(http.StatusOK, gin.H{"orderId": res.OrderID, "message": "Order created", "alreadyCreated": false})
}

// GuestCheckout handles POST /api/cart/guest/checkout: it turns the session
// cart into an order without a user and empties the session cart.
func (h *Handlers) GuestCheckout(c *gin.Context) {
	sess := session.Get(c)
	if sess.LoggedIn() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Logged-in users must use /api/orders/checkout"})
		return
	}
	input, ok := bindCheckout(c)
	if !ok {
		return
	}

	orderID, err := h.Store.GuestCheckout(c.Request.Context(), sess.GuestCart, input)
	if err != nil {
		h.storeError(c, err, "Checkout failed")
		return
	}
	metrics.RecordCheckout("guest")

	sess.GuestCart = nil
	if !h.saveSession(c, sess) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "message": "Order created (guest)"})
}

// CreateOrderInput defines the JSON for POST /api/orders.
type CreateOrderInput struct {
	Items []models.CartLine `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder places an order directly from a list of lines, bypassing the
// cart.
func (h *Handlers) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	orderID, err := h.Store.CreateOrder(c.Request.Context(), session.Get(c).UserID(), input.Items)
	if err != nil {
		h.storeError(c, err, "Failed to create order")
		return
	}
	metrics.RecordCheckout("direct")
	c.JSON(http.StatusCreated, gin.H{"orderId": orderID})
}

func (h *Handlers) ListOrders(c *gin.Context) {
	orders, err := h.Store.ListUserOrders(c.Request.Context(), session.Get(c).UserID())
	if err != nil {
		h.serverError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handlers) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.Store.UserOrder(c.Request.Context(), session.Get(c).UserID(), id)
	if err != nil {
		h.storeError(c, err, "Failed to load order")
		return
	}
	c.JSON(http.StatusOK, order)
}
