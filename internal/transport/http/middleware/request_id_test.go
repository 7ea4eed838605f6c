package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func requestIDRouter() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		seen = requestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router, &seen
}

func TestRequestIDHonorsCallerHeader(t *testing.T) {
	router, seen := requestIDRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get(RequestIDHeader); got != "req-42" {
		t.Errorf("response header = %q, want req-42", got)
	}
	if *seen != "req-42" {
		t.Errorf("context request id = %q, want req-42", *seen)
	}
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	router, seen := requestIDRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request id header")
	}
	if *seen == "" {
		t.Error("expected request id in context")
	}
	if *seen != rr.Header().Get(RequestIDHeader) {
		t.Error("context and header request ids differ")
	}
}
