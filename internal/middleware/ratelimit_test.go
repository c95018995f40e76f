package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
)

func hit(r *gin.Engine) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func newLimitedRouter(l *limiter.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(l))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestMemoryLimiter(t *testing.T) {
	l, err := NewMemoryLimiter("2-M")
	require.NoError(t, err)
	r := newLimitedRouter(l)

	assert.Equal(t, http.StatusNoContent, hit(r))
	assert.Equal(t, http.StatusNoContent, hit(r))
	assert.Equal(t, http.StatusTooManyRequests, hit(r))
}

func TestRedisLimiterSharesState(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	first, err := NewRedisLimiter(client, "1-H")
	require.NoError(t, err)
	second, err := NewRedisLimiter(client, "1-H")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, hit(newLimitedRouter(first)))
	// a second instance sees the same counter
	assert.Equal(t, http.StatusTooManyRequests, hit(newLimitedRouter(second)))
}

func TestRedisLimiterFailureIsInternalError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	l, err := NewRedisLimiter(client, "5-M")
	require.NoError(t, err)
	mr.Close()

	assert.Equal(t, http.StatusInternalServerError, hit(newLimitedRouter(l)))
}

func TestInvalidRate(t *testing.T) {
	_, err := NewMemoryLimiter("lots")
	assert.Error(t, err)
}
