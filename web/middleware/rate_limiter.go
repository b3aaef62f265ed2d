package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request can proceed and consumes a token if so
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	tb.tokens = min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// Remaining returns the number of tokens remaining
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tokens := min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	return int(tokens)
}

// ClientRateLimiter throttles chat messages per client key (IP). The
// bucket store is an LRU so an open endpoint cannot grow it without
// bound; evicting an active bucket just refills that client early.
type ClientRateLimiter struct {
	buckets    *lru.Cache
	burstSize  int
	refillRate float64
	mu         sync.Mutex
	logger     *zap.Logger
}

// NewClientRateLimiter creates a limiter allowing messagesPerMinute
// sustained with a burst of burstSize, tracking at most cacheSize
// clients.
func NewClientRateLimiter(messagesPerMinute, burstSize, cacheSize int, logger *zap.Logger) (*ClientRateLimiter, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &ClientRateLimiter{
		buckets:    cache,
		burstSize:  burstSize,
		refillRate: float64(messagesPerMinute) / 60.0,
		logger:     logger,
	}, nil
}

// Check reports whether a request from key may proceed, consuming a
// token if so.
func (l *ClientRateLimiter) Check(key string) bool {
	l.mu.Lock()
	var bucket *TokenBucket
	if cached, ok := l.buckets.Get(key); ok {
		bucket = cached.(*TokenBucket)
	} else {
		bucket = NewTokenBucket(float64(l.burstSize), l.refillRate)
		l.buckets.Add(key, bucket)
	}
	l.mu.Unlock()

	return bucket.Allow()
}

// Remaining returns the tokens left for key without consuming one.
func (l *ClientRateLimiter) Remaining(key string) int {
	l.mu.Lock()
	cached, ok := l.buckets.Get(key)
	l.mu.Unlock()
	if !ok {
		return l.burstSize
	}
	return cached.(*TokenBucket).Remaining()
}

// RateLimitMiddleware creates a Gin middleware throttling by client IP.
func RateLimitMiddleware(limiter *ClientRateLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed := limiter.Check(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.burstSize))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("client_ip", key))
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Muitas requisições. Aguarde um momento.",
			})
			return
		}

		c.Next()
	}
}
