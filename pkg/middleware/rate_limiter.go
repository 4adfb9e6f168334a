package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterIdle is how long an IP's bucket is kept after its last request
const limiterIdle = 5 * time.Minute

// RateLimiter hands out one token bucket per client IP. Buckets of idle IPs
// are evicted.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *gocache.Cache
	idle     time.Duration
	limit    rate.Limit
	burst    int
	logger   *zap.Logger
}

// NewRateLimiter allows perMinute requests per IP with a burst of the same size
func NewRateLimiter(perMinute int, logger *zap.Logger) *RateLimiter {
	return newRateLimiter(perMinute, limiterIdle, logger)
}

func newRateLimiter(perMinute int, idle time.Duration, logger *zap.Logger) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		limiters: gocache.New(idle, idle),
		idle:     idle,
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		logger:   logger,
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist
func (s *RateLimiter) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	var limiter *rate.Limiter
	if item, ok := s.limiters.Get(ip); ok {
		limiter = item.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(s.limit, s.burst)
	}
	s.limiters.Set(ip, limiter, s.idle)
	return limiter
}

// Middleware rejects requests over the limit with 429
func (s *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !s.getLimiter(ip).Allow() {
			s.logger.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again in a minute."})
			return
		}
		c.Next()
	}
}
