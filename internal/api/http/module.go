package http

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	logmodule "github.com/weisyn/ccip-gateway/internal/core/infrastructure/log"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/config"
)

// ModuleParams HTTP 模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Provider   config.Provider
	Gateway    ccip.Gateway
	Logger     *zap.Logger           `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
	Gatherer   prometheus.Gatherer   `optional:"true"`
}

// initializeGinMode 在创建路由引擎之前设置 gin 运行模式
// dev 环境保留 gin 的调试输出，其余环境静默
func initializeGinMode(provider config.Provider) {
	if provider.GetEnvironment() == "dev" {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard
}

// ProvideServer 创建 HTTP 服务器并注册生命周期钩子
func ProvideServer(params ModuleParams) *Server {
	initializeGinMode(params.Provider)

	server := NewServer(ServerDeps{
		HTTP:        params.Provider.GetAPI().HTTP,
		RoutePrefix: params.Provider.GetGateway().RoutePrefix,
		Gateway:     params.Gateway,
		Logger:      logmodule.NewModuleZapLogger(params.Logger, "api"),
		Registerer:  params.Registerer,
		Gatherer:    params.Gatherer,
	})

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server
}

// Module 返回HTTP服务模块
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(ProvideServer),
		// 确保服务器被构造，从而注册生命周期钩子
		fx.Invoke(func(*Server) {}),
	)
}
