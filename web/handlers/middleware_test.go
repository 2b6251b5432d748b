package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scrypster/kindred/web/handlers"
	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequireAuth_OpenWithoutToken(t *testing.T) {
	handler := handlers.RequireAuth(okHandler, "")

	req := httptest.NewRequest("GET", "/api/graph", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"no bearer prefix", "secret-token", http.StatusUnauthorized},
		{"valid token", "Bearer secret-token", http.StatusOK},
	}

	handler := handlers.RequireAuth(okHandler, "secret-token")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/graph", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), "unauthorized")
			}
		})
	}
}

func TestRateLimitMiddleware_AllowsNormalRate(t *testing.T) {
	handler := handlers.RateLimitMiddleware(okHandler, handlers.NewRateLimiter(10, 20))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", "/api/graph", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_RejectsExcessiveRate(t *testing.T) {
	handler := handlers.RateLimitMiddleware(okHandler, handlers.NewRateLimiter(1, 2))

	// First 2 should succeed (burst)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/api/graph", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest("GET", "/api/graph", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Another client has its own bucket.
	req = httptest.NewRequest("GET", "/api/graph", nil)
	req.RemoteAddr = "10.0.0.9:4567"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_NilDisables(t *testing.T) {
	handler := handlers.RateLimitMiddleware(okHandler, nil)
	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/graph", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
