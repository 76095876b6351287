package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apitypes "github.com/weisyn/ccip-gateway/internal/api/http/types"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
)

// HealthHandler 健康检查端点处理器
//
// - /health: 状态报告（处理器数量、运行时长）
// - /health/live: 存活检查
// - /health/ready: 就绪检查，处理器表冻结且至少有一个处理器时返回 200
type HealthHandler struct {
	gateway   ccip.Gateway
	startTime time.Time
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(gateway ccip.Gateway) *HealthHandler {
	return &HealthHandler{gateway: gateway, startTime: time.Now()}
}

// RegisterRoutes 注册健康检查路由
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	health := r.Group("/health")
	{
		health.GET("", h.GetHealth)
		health.GET("/live", h.GetLiveness)
		health.GET("/ready", h.GetReadiness)
	}
}

func (h *HealthHandler) ready() bool {
	return h.gateway.Sealed() && len(h.gateway.Handlers()) > 0
}

// GetHealth 获取健康状态
func (h *HealthHandler) GetHealth(c *gin.Context) {
	status := "ok"
	if !h.ready() {
		status = "starting"
	}
	c.JSON(http.StatusOK, &apitypes.HealthResponse{
		Status:   status,
		Handlers: len(h.gateway.Handlers()),
		Uptime:   time.Since(h.startTime).Truncate(time.Second).String(),
	})
}

// GetLiveness 存活检查，能执行到这里即表示进程存活
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadiness 就绪检查
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	if !h.ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
