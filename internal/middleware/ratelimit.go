package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/medhub/clinic-api/internal/config"
)

// RateLimit enforces a per-client token bucket keyed by IP. Idle clients
// expire from the store, so the map cannot grow without bound.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiters := gocache.New(10*time.Minute, 15*time.Minute)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		var limiter *rate.Limiter
		if cached, ok := limiters.Get(ip); ok {
			limiter = cached.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
			limiters.SetDefault(ip, limiter)
		}

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
