// internal/middleware/rate_limit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/restitch/restitch-backend/internal/config"
)

func newLimitedRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", handler, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func performFrom(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRateLimitExhaustsBurst(t *testing.T) {
	limits := NewRateLimits(config.RateLimitConfig{
		APIPerSecond:     10,
		APIBurst:         20,
		AuthPerMinute:    2,
		UploadsPerMinute: 10,
	})
	r := newLimitedRouter(limits.Auth())

	assert.Equal(t, http.StatusOK, performFrom(r, "198.51.100.1:1000").Code)
	assert.Equal(t, http.StatusOK, performFrom(r, "198.51.100.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, performFrom(r, "198.51.100.1:1000").Code)
}

func TestRateLimitBucketsArePerClient(t *testing.T) {
	limits := NewRateLimits(config.RateLimitConfig{
		APIPerSecond:     10,
		APIBurst:         20,
		AuthPerMinute:    1,
		UploadsPerMinute: 10,
	})
	r := newLimitedRouter(limits.Auth())

	assert.Equal(t, http.StatusOK, performFrom(r, "198.51.100.1:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, performFrom(r, "198.51.100.1:1000").Code)

	// A different client gets its own bucket.
	assert.Equal(t, http.StatusOK, performFrom(r, "198.51.100.2:1000").Code)
}

func TestRateLimitConfigFloor(t *testing.T) {
	// Zero or negative budgets clamp to one instead of panicking.
	limits := NewRateLimits(config.RateLimitConfig{})
	r := newLimitedRouter(limits.API())

	assert.Equal(t, http.StatusOK, performFrom(r, "198.51.100.3:1000").Code)
}
