package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/01moynul/storefront-golang/internal/metrics"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/session"
	"github.com/01moynul/storefront-golang/internal/store"
)

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an account. It does not log the user in.
func (h *Handlers) Register(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	role := models.RoleCustomer
	if input.Role == models.RoleAdmin && h.AllowAdminSignup {
		role = models.RoleAdmin
	}

	user, err := h.Store.CreateUser(c.Request.Context(), input.Username, input.Password, role)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		h.serverError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username, "role": user.Role})
}

// Login checks credentials, regenerates the session and folds any guest
// favorites and cart into the account.
func (h *Handlers) Login(c *gin.Context) {
	// 1. --- Validate input ---
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	// 2. --- Check credentials ---
	ctx := c.Request.Context()
	user, upgraded, err := h.Store.Authenticate(ctx, strings.TrimSpace(input.Username), input.Password)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong username or password"})
			return
		}
		h.serverError(c, err, "Login failed")
		return
	}
	if upgraded {
		h.Log.WithField("userID", user.ID).Info("legacy password upgraded to bcrypt")
	}

	// 3. --- Regenerate the session, keeping guest data aside ---
	sess := session.Get(c)
	guestFavorites, guestCart := sess.TakeGuestData()
	if err := h.Sessions.Regenerate(c, sess); err != nil {
		h.serverError(c, err, "Failed to start session")
		return
	}
	sess.User = &session.User{ID: user.ID, Username: user.Username, Role: user.Role}

	// 4. --- Merge guest data; failures do not block the login ---
	if len(guestFavorites) > 0 || len(guestCart) > 0 {
		err := h.Store.MergeGuestData(ctx, user.ID, guestFavorites, guestCart)
		metrics.RecordGuestMerge(err == nil)
		if err != nil {
			h.Log.WithError(err).WithFields(logrus.Fields{
				"userID":    user.ID,
				"favorites": len(guestFavorites),
				"cartLines": len(guestCart),
			}).Error("guest merge failed")
		}
	}

	if !h.saveSession(c, sess) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged in", "user": sess.User})
}

func (h *Handlers) Logout(c *gin.Context) {
	if err := h.Sessions.Destroy(c, session.Get(c)); err != nil {
		h.serverError(c, err, "Failed to sign out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Me returns the session user or null.
func (h *Handlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": session.Get(c).User})
}
