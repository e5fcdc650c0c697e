package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoginRateLimitBlocksAfterBurst(t *testing.T) {
	cfg := config.RateLimitConfig{LoginPerMinute: 1, LoginBurst: 2}
	handler := LoginRateLimit(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		statuses = append(statuses, res.Code)
	}

	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestLoginRateLimitKeysByClient(t *testing.T) {
	cfg := config.RateLimitConfig{LoginPerMinute: 1, LoginBurst: 1}
	handler := LoginRateLimit(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, addr := range []string{"10.0.0.1:4000", "10.0.0.2:4000"} {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		require.Equal(t, http.StatusOK, res.Code, addr)
	}
}

func TestLoginRateLimitDisabled(t *testing.T) {
	cfg := config.RateLimitConfig{LoginPerMinute: 0}
	handler := LoginRateLimit(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		require.Equal(t, http.StatusOK, res.Code)
	}
}
