package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"campmanager-service/internal/error/code"
	"campmanager-service/internal/error/response"
)

// TokenBucket is a simple token bucket rate limiter
type TokenBucket struct {
	rate       float64   // tokens added per second
	capacity   int       // bucket capacity
	tokens     float64   // current tokens
	lastRefill time.Time // last refill time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket limiter
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow tries to take one token
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}

	return false
}

var (
	ipLimiters   = make(map[string]*TokenBucket)
	ipLimitersMu sync.RWMutex
)

// limiterForIP returns (creating if needed) the bucket for a client IP
func limiterForIP(ip string, rate float64, burst int) *TokenBucket {
	ipLimitersMu.RLock()
	limiter, ok := ipLimiters[ip]
	ipLimitersMu.RUnlock()
	if ok {
		return limiter
	}

	ipLimitersMu.Lock()
	defer ipLimitersMu.Unlock()
	if limiter, ok = ipLimiters[ip]; ok {
		return limiter
	}
	limiter = NewTokenBucket(rate, burst)
	ipLimiters[ip] = limiter
	return limiter
}

// RateLimit limits requests per client IP
func RateLimit(rate float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := limiterForIP(c.ClientIP(), rate, burst)
		if !limiter.Allow() {
			response.Fail(c, code.ErrTooManyRequests, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
