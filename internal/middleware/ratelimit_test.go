package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLimitedHandler(t *testing.T, limit int, window time.Duration) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := RateLimitMiddleware(client, RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            window,
		KeyPrefix:         "catalog_rate_limit",
	}, zap.NewNop())

	return limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})), mr
}

func hit(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/produtos", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// Exactly the configured number of requests pass in one window
func TestProperty_RateLimitBlocksExcess(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests beyond the limit get 429", prop.ForAll(
		func(limit, excess int) bool {
			handler, _ := newLimitedHandler(t, limit, time.Minute)

			passed, blocked := 0, 0
			for i := 0; i < limit+excess; i++ {
				switch hit(handler, "10.0.0.1:"+strconv.Itoa(40000+i)).Code {
				case http.StatusOK:
					passed++
				case http.StatusTooManyRequests:
					blocked++
				}
			}
			return passed == limit && blocked == excess
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_HeadersAndWindowReset(t *testing.T) {
	handler, mr := newLimitedHandler(t, 2, 30*time.Second)

	w := hit(handler, "10.0.0.2:1000")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	hit(handler, "10.0.0.2:1000")
	w = hit(handler, "10.0.0.2:1000")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other clients have their own counter
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.3:1000").Code)

	mr.FastForward(31 * time.Second)
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.2:1000").Code)
}

func TestRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	handler, mr := newLimitedHandler(t, 1, time.Minute)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.4:1000").Code)
	}
}
