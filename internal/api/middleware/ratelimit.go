package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/recipe-social/pkg/response"
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter 按客户端 IP 的令牌桶限流
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      rate.Limit
	burst    int
	idle     time.Duration
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
		idle:     time.Hour,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	now := time.Now()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastAccess = now
	rl.mu.Unlock()
	return entry.limiter.Allow()
}

// Cleanup 删除长时间未访问的 IP
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	threshold := time.Now().Add(-rl.idle)
	for k, e := range rl.limiters {
		if e.lastAccess.Before(threshold) {
			delete(rl.limiters, k)
		}
	}
}

// Run 定期清理，直到 stop 关闭
func (rl *RateLimiter) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.Cleanup()
		case <-stop:
			return
		}
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
