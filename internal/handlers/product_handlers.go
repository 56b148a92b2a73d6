package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/store"
)

// ProductInput defines the JSON for creating or replacing a product.
type ProductInput struct {
	ProductName        string  `json:"productName" binding:"required"`
	Price              float64 `json:"price" binding:"required,gt=0"`
	Image              *string `json:"image"`
	SecondaryImage1    *string `json:"secondaryImage1"`
	SecondaryImage2    *string `json:"secondaryImage2"`
	SecondaryImage3    *string `json:"secondaryImage3"`
	Brand              *string `json:"brand"`
	ProductDescription *string `json:"productDescription"`
	IsTrending         bool    `json:"isTrending"`
	CategoryID         int64   `json:"categoryId" binding:"required,gt=0"`
	PublishingDate     string  `json:"publishingDate" binding:"required"`
}

func (in ProductInput) toModel(id int64) *models.Product {
	return &models.Product{
		ID:                 id,
		Name:               strings.TrimSpace(in.ProductName),
		Price:              in.Price,
		Image:              in.Image,
		SecondaryImage1:    in.SecondaryImage1,
		SecondaryImage2:    in.SecondaryImage2,
		SecondaryImage3:    in.SecondaryImage3,
		Brand:              in.Brand,
		ProductDescription: in.ProductDescription,
		IsTrending:         in.IsTrending,
		CategoryID:         in.CategoryID,
		PublishingDate:     in.PublishingDate,
	}
}

// ListProducts handles GET /api/products?q=&categoryId=&trending=
func (h *Handlers) ListProducts(c *gin.Context) {
	filter := models.ProductFilter{Query: c.Query("q")}
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid categoryId"})
			return
		}
		filter.CategoryID = id
	}
	filter.TrendingOnly, _ = strconv.ParseBool(c.Query("trending"))

	products, err := h.Store.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.serverError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.Store.ProductByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.serverError(c, err, "Failed to load product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handlers) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	product := input.toModel(0)
	if err := h.Store.CreateProduct(c.Request.Context(), product); err != nil {
		h.storeError(c, err, "Failed to create product")
		return
	}

	created, err := h.Store.ProductByID(c.Request.Context(), product.ID)
	if err != nil {
		h.serverError(c, err, "Failed to load product")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if err := h.Store.UpdateProduct(c.Request.Context(), input.toModel(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.storeError(c, err, "Failed to update product")
		return
	}

	updated, err := h.Store.ProductByID(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err, "Failed to load product")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.storeError(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted", "id": id})
}
