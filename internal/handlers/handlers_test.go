package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func run(r responder, err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	r.fail(c, err)
	return w
}

func TestFail(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		err        error
		status     int
		body       string
	}{
		{"not found", true, apperrors.NotFound("Segment"), http.StatusNotFound, `{"message":"Segment not found"}`},
		{"conflict", true, apperrors.Conflict("Campaign has already been sent"), http.StatusBadRequest, `{"message":"Campaign has already been sent"}`},
		{"unauthorized", true, apperrors.Unauthorized("Invalid email or password"), http.StatusUnauthorized, `{"message":"Invalid email or password"}`},
		{"unknown hidden in production", true, errors.New("socket closed"), http.StatusInternalServerError, `{"message":"Internal server error"}`},
		{"stack outside production", false, errors.New("socket closed"), http.StatusInternalServerError, `{"message":"Internal server error","stack":"socket closed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := run(responder{production: tt.production}, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	_, ok := responder{production: true}.pathID(c, "id", "Order")
	assert.False(t, ok)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Order not found"}`, w.Body.String())
}

func TestOwnerWithoutAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, ok := owner(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
