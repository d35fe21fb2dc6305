package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitRule describes a token bucket: Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// RateLimiter tracks token buckets per key.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	tokens   float64
	refilled time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{buckets: make(map[string]*bucket), now: now}
}

// Allow takes one token from the bucket for key. When the bucket is empty it
// reports the wait until the next token instead.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b := l.buckets[key]
	if b == nil {
		b = &bucket{tokens: float64(rule.Burst), refilled: now}
		l.buckets[key] = b
	}
	b.refill(now, rule)

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	waitMs := math.Ceil((1 - b.tokens) / rule.Rate * 1000)
	return false, time.Duration(waitMs) * time.Millisecond
}

func (b *bucket) refill(now time.Time, rule RateLimitRule) {
	elapsed := now.Sub(b.refilled).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens = math.Min(float64(rule.Burst), b.tokens+elapsed*rule.Rate)
	b.refilled = now
}

// RateLimit limits requests on the route it is attached to, keyed by the
// authenticated user or, failing that, the client IP.
func RateLimit(limiter *RateLimiter, rule RateLimitRule) gin.HandlerFunc {
	if limiter == nil {
		limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		key := strings.TrimSpace(UserIDFromContext(c))
		if key == "" {
			key = strings.TrimSpace(c.ClientIP())
		}
		ok, retryAfter := limiter.Allow(key+"|"+c.FullPath(), rule)
		if ok {
			c.Next()
			return
		}

		millis := int(retryAfter / time.Millisecond)
		if millis <= 0 {
			millis = 1000
		}
		seconds := (millis + 999) / 1000
		c.Header("Retry-After", strconv.Itoa(seconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":        "rate_limited",
			"retryAfterMs": millis,
		})
	}
}
