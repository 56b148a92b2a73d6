package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type heroImageInput struct {
	ImageURL string `json:"image_url"`
}

func bindHeroImage(c *gin.Context) (string, bool) {
	var input heroImageInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.ImageURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_url is required"})
		return "", false
	}
	return strings.TrimSpace(input.ImageURL), true
}

func (h *Handlers) ListHeroImages(c *gin.Context) {
	images, err := h.Store.ListHeroImages(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to list hero images")
		return
	}
	c.JSON(http.StatusOK, images)
}

func (h *Handlers) CreateHeroImage(c *gin.Context) {
	url, ok := bindHeroImage(c)
	if !ok {
		return
	}
	image, err := h.Store.CreateHeroImage(c.Request.Context(), url)
	if err != nil {
		h.serverError(c, err, "Failed to create hero image")
		return
	}
	c.JSON(http.StatusCreated, image)
}

func (h *Handlers) UpdateHeroImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	url, ok := bindHeroImage(c)
	if !ok {
		return
	}
	image, err := h.Store.UpdateHeroImage(c.Request.Context(), id, url)
	if err != nil {
		h.storeError(c, err, "Failed to update hero image")
		return
	}
	c.JSON(http.StatusOK, image)
}
