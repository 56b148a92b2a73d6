package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/session"
	"github.com/01moynul/storefront-golang/internal/store"
)

type usernameInput struct {
	Username string `json:"username" binding:"required"`
}

// UpdateUsername renames the logged-in user and refreshes the session.
func (h *Handlers) UpdateUsername(c *gin.Context) {
	var input usernameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}
	username := strings.TrimSpace(input.Username)
	if len(username) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be at least 3 characters"})
		return
	}

	sess := session.Get(c)
	if err := h.Store.SetUsername(c.Request.Context(), sess.UserID(), username); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		h.storeError(c, err, "Failed to update username")
		return
	}

	sess.User.Username = username
	if !h.saveSession(c, sess) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Username updated", "user": sess.User})
}

type passwordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (h *Handlers) UpdatePassword(c *gin.Context) {
	var input passwordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current and new password are required"})
		return
	}
	if len(input.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 6 characters"})
		return
	}

	ctx := c.Request.Context()
	userID := session.Get(c).UserID()

	ok, err := h.Store.CheckPassword(ctx, userID, input.CurrentPassword)
	if err != nil {
		h.storeError(c, err, "Failed to verify password")
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	if err := h.Store.SetPassword(ctx, userID, input.NewPassword); err != nil {
		h.storeError(c, err, "Failed to update password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *Handlers) GetProfile(c *gin.Context) {
	profile, err := h.Store.Profile(c.Request.Context(), session.Get(c).UserID())
	if err != nil {
		h.serverError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile replaces every profile field; omitted fields become empty.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var input models.UserProfile
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	profile, err := h.Store.SaveProfile(c.Request.Context(), session.Get(c).UserID(), input)
	if err != nil {
		h.serverError(c, err, "Failed to save profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}
