package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/01moynul/storefront-golang/internal/store"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		c, w := testContext()
		c.Params = gin.Params{{Key: "id", Value: tt.raw}}

		got, ok := parseIDParam(c, "id")
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		if !tt.ok {
			assert.Equal(t, http.StatusBadRequest, w.Code, tt.raw)
			assert.JSONEq(t, `{"error":"Invalid id"}`, w.Body.String())
		}
	}
}

func TestStoreErrorMapping(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := &Handlers{Log: log}

	tests := []struct {
		err  error
		code int
		body string
	}{
		{&store.CategoryInUseError{ProductCount: 3}, http.StatusConflict, `{"error":"Category has products","productCount":3}`},
		{fmt.Errorf("checkout: %w", store.ErrEmptyCart), http.StatusBadRequest, `{"error":"Cart is empty"}`},
		{store.ErrNoCart, http.StatusBadRequest, `{"error":"No cart to checkout"}`},
		{fmt.Errorf("add: %w", store.ErrQuantityLimit), http.StatusBadRequest, `{"error":"Quantity cannot exceed 10000"}`},
		{store.ErrInvalidInput, http.StatusBadRequest, `{"error":"Invalid input"}`},
		{store.ErrProductNotFound, http.StatusNotFound, `{"error":"Product not found"}`},
		{store.ErrProductInOrders, http.StatusConflict, `{"error":"Product is part of existing orders"}`},
		{store.ErrCategoryNotFound, http.StatusBadRequest, `{"error":"Category does not exist"}`},
		{errors.New("boom"), http.StatusInternalServerError, `{"error":"Failed"}`},
	}
	for _, tt := range tests {
		c, w := testContext()
		h.storeError(c, tt.err, "Failed")
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
		assert.JSONEq(t, tt.body, w.Body.String())
	}
}
