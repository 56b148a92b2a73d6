package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const contextKey = "session"

// Middleware loads the session for every request and stores it on the
// gin context. Nothing is written back unless a handler calls Save.
func Middleware(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Load(c)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		c.Set(contextKey, sess)
		c.Next()
	}
}

// Get returns the request's session. Without the middleware it returns an
// empty guest session so callers never see nil.
func Get(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	sess := &Session{}
	c.Set(contextKey, sess)
	return sess
}
