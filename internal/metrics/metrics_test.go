package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/products/:id", "200"))

	for _, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/products/:id", "200"))
	assert.Equal(t, 3.0, after-before)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(checkouts.WithLabelValues("guest"))
	RecordCheckout("guest")
	assert.Equal(t, 1.0, testutil.ToFloat64(checkouts.WithLabelValues("guest"))-before)

	failed := testutil.ToFloat64(guestMerges.WithLabelValues("error"))
	RecordGuestMerge(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(guestMerges.WithLabelValues("error"))-failed)

	reaped := testutil.ToFloat64(sessionsReaped)
	RecordSessionsReaped(0)
	RecordSessionsReaped(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(sessionsReaped)-reaped)
}

func TestHandlerServesRegistry(t *testing.T) {
	RecordCheckout("user")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_orders_checkouts_total")
}
