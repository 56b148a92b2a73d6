package middleware

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/session"
)

// RequireAuth rejects requests whose session has no user. On success it
// puts the user id on the context as "userID".
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Get(c)
		if !sess.LoggedIn() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			c.Abort()
			return
		}
		c.Set("userID", sess.UserID())
		c.Next()
	}
}

// queryUserRole re-reads the role so demoted or deleted users lose access
// immediately.
func queryUserRole(db *sql.DB, c *gin.Context, userID int64) (string, error) {
	var role string
	err := db.QueryRowContext(c.Request.Context(), "SELECT role FROM users WHERE id = ?", userID).Scan(&role)
	return role, err
}

// RequireAdmin must run after RequireAuth. It checks the stored role and
// sets "userRole" on success.
func RequireAdmin(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get userID from RequireAuth
		raw, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			c.Abort()
			return
		}
		userID := raw.(int64)

		// 2. Query DB for user's role
		role, err := queryUserRole(db, c, userID)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: admin role required"})
			c.Abort()
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking role"})
			c.Abort()
			return
		}

		// 3. Check permission
		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: admin role required"})
			c.Abort()
			return
		}

		c.Set("userRole", role)
		c.Next()
	}
}
