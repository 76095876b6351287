package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求ID响应头
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	// maxRequestIDLen 客户端传入的请求ID超过该长度时重新生成
	maxRequestIDLen = 128
)

// RequestID 请求ID中间件
// 为每个请求生成唯一追踪ID，已带 X-Request-ID 的请求沿用客户端的值
type RequestID struct{}

// NewRequestID 创建请求ID中间件
func NewRequestID() *RequestID {
	return &RequestID{}
}

// Middleware 返回Gin中间件
func (m *RequestID) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID 从上下文获取请求ID（与 RequestID 中间件配合）
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok2 := v.(string); ok2 {
			return s
		}
	}
	return ""
}
