package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/storefront-golang/internal/session"
)

// withSession stands in for session.Middleware.
func withSession(user *session.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("session", &session.Session{ID: "sid", Data: session.Data{User: user}})
		c.Next()
	}
}

func serveAdmin(t *testing.T, user *session.User, mock func(sqlmock.Sqlmock)) int {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, sm, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	if mock != nil {
		mock(sm)
	}

	r := gin.New()
	r.GET("/admin", withSession(user), RequireAuth(), RequireAdmin(db), func(c *gin.Context) {
		assert.Equal(t, "admin", c.GetString("userRole"))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, sm.ExpectationsWereMet())
	return w.Code
}

func TestRequireAuthRejectsGuests(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, serveAdmin(t, nil, nil))
}

func TestRequireAdmin(t *testing.T) {
	query := "SELECT role FROM users WHERE id = \\?"

	t.Run("admin", func(t *testing.T) {
		code := serveAdmin(t, &session.User{ID: 7, Role: "customer"}, func(m sqlmock.Sqlmock) {
			m.ExpectQuery(query).WithArgs(7).WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("admin"))
		})
		assert.Equal(t, http.StatusOK, code, "role is read from the database, not the session")
	})

	t.Run("customer", func(t *testing.T) {
		code := serveAdmin(t, &session.User{ID: 7, Role: "admin"}, func(m sqlmock.Sqlmock) {
			m.ExpectQuery(query).WithArgs(7).WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("customer"))
		})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("deleted user", func(t *testing.T) {
		code := serveAdmin(t, &session.User{ID: 7}, func(m sqlmock.Sqlmock) {
			m.ExpectQuery(query).WithArgs(7).WillReturnRows(sqlmock.NewRows([]string{"role"}))
		})
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("database error", func(t *testing.T) {
		code := serveAdmin(t, &session.User{ID: 7}, func(m sqlmock.Sqlmock) {
			m.ExpectQuery(query).WithArgs(7).WillReturnError(errors.New("disk I/O error"))
		})
		assert.Equal(t, http.StatusInternalServerError, code)
	})
}
