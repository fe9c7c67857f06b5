package httpapi

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	bucketIdleTTL   = 1 * time.Hour
	cleanupInterval = 30 * time.Minute
)

type clientBucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter is a per-client token bucket holding up to capacity tokens
// and refilling continuously at capacity per window.
type RateLimiter struct {
	mu          sync.Mutex
	capacity    int
	window      time.Duration
	clients     map[string]*clientBucket
	stopCleanup chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewRateLimiter starts the limiter's cleanup goroutine; call Stop to end it.
func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity:    capacity,
		window:      window,
		clients:     make(map[string]*clientBucket),
		stopCleanup: make(chan struct{}),
		now:         time.Now,
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

// cleanup forgets clients idle long enough for their bucket to be full again.
func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	idle := bucketIdleTTL
	if r.window > idle {
		idle = r.window
	}
	now := r.now()
	for client, b := range r.clients {
		if now.Sub(b.lastSeen) > idle {
			delete(r.clients, client)
		}
	}
}

func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

// Allow takes one token for client.
func (r *RateLimiter) Allow(client string) bool {
	ok, _, _ := r.take(client)
	return ok
}

// take spends a token if one is available. It returns the whole tokens left
// and, when refused, how long until the next token.
func (r *RateLimiter) take(client string) (bool, int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	capacity := float64(r.capacity)
	b, ok := r.clients[client]
	if !ok {
		b = &clientBucket{tokens: capacity, lastSeen: now}
		r.clients[client] = b
	}
	if elapsed := now.Sub(b.lastSeen); elapsed > 0 {
		b.tokens = math.Min(capacity, b.tokens+capacity*float64(elapsed)/float64(r.window))
	}
	b.lastSeen = now

	if b.tokens < 1 {
		wait := time.Duration((1 - b.tokens) * float64(r.window) / capacity)
		return false, 0, wait
	}
	b.tokens--
	return true, int(b.tokens), 0
}

func rateLimit(limiter *RateLimiter) gin.HandlerFunc {
	limit := strconv.Itoa(limiter.capacity)
	return func(c *gin.Context) {
		ok, remaining, wait := limiter.take(c.ClientIP())
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Max(1, math.Ceil(wait.Seconds())))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
			return
		}
		c.Next()
	}
}
