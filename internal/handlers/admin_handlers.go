package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
)

//
// --- Admin: orders and users ---
//

func validDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ListAdminOrders handles GET /api/admin/orders?from=&to=&customer=
func (h *Handlers) ListAdminOrders(c *gin.Context) {
	filter := models.AdminOrderFilter{
		From:     c.Query("from"),
		To:       c.Query("to"),
		Customer: c.Query("customer"),
	}
	if !validDate(filter.From) || !validDate(filter.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be YYYY-MM-DD"})
		return
	}

	orders, err := h.Store.ListAdminOrders(c.Request.Context(), filter)
	if err != nil {
		h.serverError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handlers) GetAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.Store.AdminOrder(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Failed to load order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handlers) DeleteAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteOrder(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Failed to delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted", "id": id})
}

func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}
