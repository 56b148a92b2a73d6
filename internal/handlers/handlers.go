package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/01moynul/storefront-golang/internal/session"
	"github.com/01moynul/storefront-golang/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB       *sql.DB
	Store    *store.Store
	Sessions *session.Store
	Log      logrus.FieldLogger

	// AllowAdminSignup lets /auth/register honour role=admin.
	AllowAdminSignup bool
}

// parseIDParam reads a positive integer path parameter, answering 400
// itself when it is not one.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handlers) serverError(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	h.Log.WithError(err).WithField("path", c.FullPath()).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// saveSession persists the session, answering 500 itself on failure.
func (h *Handlers) saveSession(c *gin.Context, sess *session.Session) bool {
	if err := h.Sessions.Save(c, sess); err != nil {
		h.serverError(c, err, "Failed to save session")
		return false
	}
	return true
}

// storeError maps the store's sentinel errors onto HTTP statuses. It falls
// back to 500 with fallbackMsg.
func (h *Handlers) storeError(c *gin.Context, err error, fallbackMsg string) {
	var (
		inUse   *store.CategoryInUseError
		badLine *store.InvalidLineError
	)
	switch {
	case errors.As(err, &inUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Category has products", "productCount": inUse.ProductCount})
	case errors.As(err, &badLine):
		c.JSON(http.StatusBadRequest, gin.H{"error": badLine.Error()})
	case errors.Is(err, store.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	case errors.Is(err, store.ErrCategoryNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category does not exist"})
	case errors.Is(err, store.ErrProtectedCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": store.ErrProtectedCategory.Error()})
	case errors.Is(err, store.ErrProductInOrders):
		c.JSON(http.StatusConflict, gin.H{"error": "Product is part of existing orders"})
	case errors.Is(err, store.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, store.ErrNoCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No cart to checkout"})
	case errors.Is(err, store.ErrQuantityLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": quantityLimitMsg})
	case errors.Is(err, store.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		h.serverError(c, err, fallbackMsg)
	}
}

// Health pings the database.
func (h *Handlers) Health(c *gin.Context) {
	if err := h.DB.PingContext(c.Request.Context()); err != nil {
		h.serverError(c, err, "Database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
