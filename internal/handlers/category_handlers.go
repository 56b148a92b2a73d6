package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/store"
)

type categoryInput struct {
	CategoryName string  `json:"categoryName" form:"categoryName"`
	ImageURL     *string `json:"imageUrl" form:"imageUrl"`
}

// bindCategory accepts JSON or form bodies and trims the name.
func bindCategory(c *gin.Context) (store.CategoryInput, bool) {
	var input categoryInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return store.CategoryInput{}, false
	}
	name := strings.TrimSpace(input.CategoryName)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return store.CategoryInput{}, false
	}
	return store.CategoryInput{Name: name, ImageURL: input.ImageURL}, true
}

// ListCategories is the admin view with product counts.
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.Store.ListCategoriesWithCounts(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handlers) ListPublicCategories(c *gin.Context) {
	categories, err := h.Store.ListPublicCategories(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handlers) CreateCategory(c *gin.Context) {
	input, ok := bindCategory(c)
	if !ok {
		return
	}
	category, err := h.Store.CreateCategory(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
			return
		}
		h.serverError(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	input, ok := bindCategory(c)
	if !ok {
		return
	}

	category, err := h.Store.UpdateCategory(c.Request.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		case errors.Is(err, store.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		case errors.Is(err, store.ErrProtectedCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": "The Uncategorized category cannot be renamed"})
		default:
			h.serverError(c, err, "Failed to update category")
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/categories/:id?force=true. Without
// force a category that still has products is refused with 409.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(c.Query("force"))

	moved, err := h.Store.DeleteCategory(c.Request.Context(), id, force)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		h.storeError(c, err, "Failed to delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted", "id": id, "movedProducts": moved})
}
