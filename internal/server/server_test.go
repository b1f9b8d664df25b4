package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog-api/internal/config"
	"catalog-api/internal/repository/repositorytest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "production"},
		JWT: config.JWTConfig{
			Key:    "server-test-key-0123456789abcdef",
			Issuer: "catalog-api",
			Expiry: 10 * time.Minute,
		},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"https://shop.example.com"}},
		RateLimit: config.RateLimitConfig{Requests: 3, Window: time.Minute},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, redisClient *redis.Client, healthy bool) http.Handler {
	t.Helper()
	store := repositorytest.NewStore()
	status := "down"
	if healthy {
		status = "up"
	}
	return NewRouter(cfg, zap.NewNop(), Dependencies{
		Categories: store.Categories(),
		Products:   store.Products(),
		Health: func(ctx context.Context) map[string]string {
			return map[string]string{"status": status}
		},
		Redis: redisClient,
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	for healthy, want := range map[bool]int{true: http.StatusOK, false: http.StatusServiceUnavailable} {
		router := newTestRouter(t, testConfig(), nil, healthy)
		w := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, want, w.Code)

		var body struct {
			Status   string            `json:"status"`
			Database map[string]string `json:"database"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Status)
		assert.NotEmpty(t, body.Database["status"])
	}
}

func TestRouter_LoginThenProtectedRoute(t *testing.T) {
	router := newTestRouter(t, testConfig(), nil, true)

	w := serve(router, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"admin","password":"admin"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodPost, "/categorias", strings.NewReader(`{"name":"Books","description":"Paper"}`))
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = serve(router, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/categorias/1", w.Header().Get("Location"))

	w = serve(router, httptest.NewRequest(http.MethodGet, "/categorias", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RequestIDAndCORS(t *testing.T) {
	router := newTestRouter(t, testConfig(), nil, true)

	req := httptest.NewRequest(http.MethodOptions, "/produtos", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(router, req)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/produtos", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimitWhenRedisConfigured(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	router := newTestRouter(t, testConfig(), client, true)

	var codes []int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/produtos", nil)
		req.RemoteAddr = "10.1.1.1:5000"
		codes = append(codes, serve(router, req).Code)
	}
	assert.Equal(t, []int{200, 200, 200, 429, 429}, codes)
}

func TestRouter_NoRateLimitByDefault(t *testing.T) {
	router := newTestRouter(t, testConfig(), nil, true)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"admin","password":"nope"}`))
		assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)
	}
}
