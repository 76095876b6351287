package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS 跨域中间件
//
// EIP-3668 客户端通常运行在浏览器中，网关必须返回 Access-Control-Allow-Origin。
type CORS struct {
	cors *cors.Cors
}

// NewCORS 创建跨域中间件，origins 包含 "*" 时允许任意来源
func NewCORS(origins []string) *CORS {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			allowed = append(allowed, o)
		}
	}
	return &CORS{
		cors: cors.New(cors.Options{
			AllowedOrigins:       allowed,
			AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:       []string{"Content-Type", RequestIDHeader},
			ExposedHeaders:       []string{RequestIDHeader},
			OptionsSuccessStatus: http.StatusNoContent,
		}),
	}
}

// Middleware 返回Gin中间件，预检请求在此终止
func (m *CORS) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.cors.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
