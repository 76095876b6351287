package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger 访问日志中间件
type Logger struct {
	logger *zap.Logger
}

// NewLogger 创建访问日志中间件
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger}
}

// Middleware 返回Gin中间件
//
// 5xx 记为 Error，4xx 记为 Warn，其余为 Debug，避免高频网关请求刷屏。
func (m *Logger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			m.logger.Error("HTTP request", fields...)
		case status >= 400:
			m.logger.Warn("HTTP request", fields...)
		default:
			m.logger.Debug("HTTP request", fields...)
		}
	}
}
