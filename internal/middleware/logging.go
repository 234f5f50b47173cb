package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yukikurage/taskflow/internal/constants"
	apierrors "github.com/yukikurage/taskflow/internal/errors"
	"github.com/yukikurage/taskflow/internal/logger"
)

// RequestLogger stores a request-scoped logger in the request context and logs
// one line per request once it completes.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := log.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), reqLog))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID := c.GetString(constants.ContextKeyUserID); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}

		level := zapcore.InfoLevel
		if status >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		reqLog.Log(level, "request completed", fields...)
	}
}

// Recovery turns a panic into a 500 envelope and logs it with the stack.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Error("panic recovered",
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		apierrors.InternalError(c, "")
	})
}
