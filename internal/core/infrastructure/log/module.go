package log

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	logconfig "github.com/weisyn/ccip-gateway/internal/config/log"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/config"
	logInterface "github.com/weisyn/ccip-gateway/pkg/interfaces/infrastructure/log"
)

// ModuleParams 定义日志模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider // 配置提供者
}

// ModuleOutput 定义日志模块的输出结构
type ModuleOutput struct {
	fx.Out

	Logger    logInterface.Logger // 日志记录器接口
	ZapLogger *zap.Logger         // 供网关内核、HTTP 中间件等直接使用 zap 的组件
}

// Module 返回日志模块
func Module() fx.Option {
	return fx.Module("log",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 根据配置初始化日志记录器并替换全局记录器
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger, err := New(logconfig.NewFromOptions(params.Provider.GetLog()))
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("create logger from config: %w", err)
	}

	SetLogger(logger)

	if params.Lifecycle != nil {
		params.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				// 标准输出不支持 fsync，忽略同步错误
				_ = logger.Sync()
				return nil
			},
		})
	}

	return ModuleOutput{
		Logger:    logger,
		// 包装层的 AddCallerSkip(1) 对直接使用 zap 的调用方要抵消掉
		ZapLogger: logger.GetZapLogger().WithOptions(zap.AddCallerSkip(-1)),
	}, nil
}

// NewModuleLogger 创建带 module 字段的 logger
func NewModuleLogger(baseLogger logInterface.Logger, module string) logInterface.Logger {
	if baseLogger == nil {
		return nil
	}
	return baseLogger.With("module", module)
}

// NewModuleZapLogger 创建带 module 字段的 zap logger
//
// 传入 nil 时返回 zap.NewNop()，调用方无需判空。
func NewModuleZapLogger(baseLogger *zap.Logger, module string) *zap.Logger {
	if baseLogger == nil {
		return zap.NewNop()
	}
	return baseLogger.With(zap.String("module", module))
}
