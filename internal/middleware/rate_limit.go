// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/restitch/restitch-backend/internal/config"
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client IP and prunes buckets for
// clients not seen recently.
type ipRateLimiter struct {
	clients map[string]*clientBucket
	mtx     sync.Mutex
	refill  rate.Limit
	burst   int
}

func newIPRateLimiter(refill rate.Limit, burst int) *ipRateLimiter {
	l := &ipRateLimiter{
		clients: make(map[string]*clientBucket),
		refill:  refill,
		burst:   burst,
	}

	go l.prune()

	return l
}

func (l *ipRateLimiter) prune() {
	for {
		time.Sleep(time.Minute)
		l.mtx.Lock()
		for ip, c := range l.clients {
			if time.Since(c.lastSeen) > 3*time.Minute {
				delete(l.clients, ip)
			}
		}
		l.mtx.Unlock()
	}
}

func (l *ipRateLimiter) limiterFor(ip string) *rate.Limiter {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	c, exists := l.clients[ip]
	if !exists {
		limiter := rate.NewLimiter(l.refill, l.burst)
		l.clients[ip] = &clientBucket{limiter, time.Now()}
		return limiter
	}

	c.lastSeen = time.Now()
	return c.limiter
}

func (l *ipRateLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.limiterFor(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimits holds one limiter per route group: API covers every request,
// Auth covers the credential endpoints, Uploads covers image uploads.
type RateLimits struct {
	api     *ipRateLimiter
	auth    *ipRateLimiter
	uploads *ipRateLimiter
}

func NewRateLimits(cfg config.RateLimitConfig) *RateLimits {
	return &RateLimits{
		api:     newIPRateLimiter(rate.Limit(atLeast(cfg.APIPerSecond, 1)), atLeast(cfg.APIBurst, 1)),
		auth:    newIPRateLimiter(perMinute(cfg.AuthPerMinute), atLeast(cfg.AuthPerMinute, 1)),
		uploads: newIPRateLimiter(perMinute(cfg.UploadsPerMinute), atLeast(cfg.UploadsPerMinute, 1)),
	}
}

func (r *RateLimits) API() gin.HandlerFunc {
	return r.api.handler()
}

func (r *RateLimits) Auth() gin.HandlerFunc {
	return r.auth.handler()
}

func (r *RateLimits) Uploads() gin.HandlerFunc {
	return r.uploads.handler()
}

func perMinute(n int) rate.Limit {
	return rate.Every(time.Minute / time.Duration(atLeast(n, 1)))
}

func atLeast(n, floor int) int {
	if n < floor {
		return floor
	}
	return n
}
