package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/member-graph/pkg/metrics"
)

// Metrics 记录请求数、耗时与并发数；路径使用路由模板避免高基数
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
