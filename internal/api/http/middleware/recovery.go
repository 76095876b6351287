package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apitypes "github.com/weisyn/ccip-gateway/internal/api/http/types"
)

// UnexpectedErrorMessage panic 时返回给客户端的消息
const UnexpectedErrorMessage = "Unexpected error"

// Recovery panic 恢复中间件
// 基于 gin.CustomRecovery，记录堆栈并返回 {"message": "Unexpected error"}
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		logger.Error("HTTP handler panic recovered",
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", rec),
			zap.ByteString("stack", debug.Stack()),
		)
		if c.Writer.Written() {
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, apitypes.NewErrorResponse(UnexpectedErrorMessage))
	})
}
