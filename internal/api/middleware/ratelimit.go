package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/member-graph/pkg/logger"
	"github.com/d60-Lab/member-graph/pkg/response"
)

// ipLimiter 按客户端 IP 分桶的令牌桶
type ipLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	limit       rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func (l *ipLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	v, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.limit, l.burst))
	l.maybeCleanup()
	return v.(*rate.Limiter)
}

// maybeCleanup 每 5 分钟清理一次令牌已满（长时间未使用）的桶
func (l *ipLimiter) maybeCleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.lastCleanup) < 5*time.Minute {
		return
	}
	l.lastCleanup = time.Now()
	l.limiters.Range(func(k, v any) bool {
		if v.(*rate.Limiter).Tokens() >= float64(l.burst) {
			l.limiters.Delete(k)
		}
		return true
	})
}

// RateLimit 每个 IP 每分钟 requestsPerMinute 次，超限 429；requestsPerMinute<=0 时不限流
func RateLimit(requestsPerMinute, burst int) gin.HandlerFunc {
	if requestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = requestsPerMinute
	}
	l := &ipLimiter{
		limit:       rate.Limit(float64(requestsPerMinute) / time.Minute.Seconds()),
		burst:       burst,
		lastCleanup: time.Now(),
	}

	return func(c *gin.Context) {
		key := c.ClientIP()
		limiter := l.get(key)
		if !limiter.Allow() {
			r := limiter.Reserve()
			retryAfter := max(int(r.Delay().Seconds()), 1)
			r.Cancel()

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logger.Warn("rate limit exceeded", zap.String("ip", key), zap.String("path", c.Request.URL.Path))
			response.Status(c, http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
