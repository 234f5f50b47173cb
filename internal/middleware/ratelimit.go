package middleware

import (
	"maps"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apierrors "github.com/yukikurage/taskflow/internal/errors"
	"github.com/yukikurage/taskflow/internal/logger"
)

// rateLimiterPair pairs a client's limiter with a limiter for logging its
// rejections.
type rateLimiterPair struct {
	limiter   *rate.Limiter
	sometimes *rate.Sometimes
}

// IPRateLimiter allows each client IP a burst of limit requests, refilled
// evenly over window.
type IPRateLimiter struct {
	limit  rate.Limit
	burst  int
	window time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	limiters  map[string]*rateLimiterPair
	lastPrune time.Time
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		limit:     rate.Every(window / time.Duration(limit)),
		burst:     limit,
		window:    window,
		now:       time.Now,
		limiters:  make(map[string]*rateLimiterPair),
		lastPrune: time.Now(),
	}
}

// Allow reports whether ip may make another request now.
func (l *IPRateLimiter) Allow(ip string) (bool, *rate.Sometimes) {
	pair := l.get(ip)
	return pair.limiter.AllowN(l.now(), 1), pair.sometimes
}

func (l *IPRateLimiter) get(ip string) *rateLimiterPair {
	l.mu.RLock()
	pair, ok := l.limiters[ip]
	l.mu.RUnlock()
	if ok {
		return pair
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if pair, ok = l.limiters[ip]; ok {
		return pair
	}
	l.pruneLocked()
	pair = &rateLimiterPair{
		limiter:   rate.NewLimiter(l.limit, l.burst),
		sometimes: &rate.Sometimes{First: 1, Interval: time.Minute},
	}
	l.limiters[ip] = pair
	return pair
}

// pruneLocked drops limiters whose buckets have refilled, at most once per
// window. l.mu must be held.
func (l *IPRateLimiter) pruneLocked() {
	now := l.now()
	if now.Sub(l.lastPrune) < l.window {
		return
	}
	l.lastPrune = now
	maps.DeleteFunc(l.limiters, func(_ string, pair *rateLimiterPair) bool {
		return int(pair.limiter.TokensAt(now)) >= pair.limiter.Burst()
	})
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.limiters)
}

// RateLimit rejects clients that exceed l with 429.
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, sometimes := l.Allow(ip)
		if !allowed {
			sometimes.Do(func() {
				logger.FromContext(c.Request.Context()).Warn("rate limit exceeded", zap.String("client_ip", ip))
			})
			apierrors.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
