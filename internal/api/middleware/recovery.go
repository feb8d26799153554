package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/member-graph/pkg/logger"
	"github.com/d60-Lab/member-graph/pkg/response"
)

// Recovery 捕获 panic 并上报 sentry；5xx 响应上挂的错误同样上报
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(c.Request)
		hub.Scope().SetTag("request_id", c.GetString(ContextKeyRequestID))

		defer func() {
			if r := recover(); r != nil {
				hub.RecoverWithContext(c.Request.Context(), r)
				logger.Error("panic recovered",
					zap.String("panic", fmt.Sprint(r)),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				response.Status(c, http.StatusInternalServerError)
			}
		}()

		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			for _, e := range c.Errors {
				hub.CaptureException(e.Err)
			}
		}
	}
}
