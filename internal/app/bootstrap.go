package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/weisyn/ccip-gateway/internal/api"
	apihttp "github.com/weisyn/ccip-gateway/internal/api/http"
	"github.com/weisyn/ccip-gateway/internal/app/version"
	config "github.com/weisyn/ccip-gateway/internal/config"
	"github.com/weisyn/ccip-gateway/internal/core/ccip/gateway"
	log "github.com/weisyn/ccip-gateway/internal/core/infrastructure/log"
	"github.com/weisyn/ccip-gateway/internal/core/infrastructure/metrics"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
	ifconfig "github.com/weisyn/ccip-gateway/pkg/interfaces/config"
)

// startTimeout 启动超时，包括 getBalance 处理器的节点连接
const startTimeout = 60 * time.Second

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App

	// 启动后由 fx.Populate 填充
	gateway    ccip.Gateway
	httpServer *apihttp.Server
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{
		opts: opts,
	}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(func() ifconfig.AppOptions { return b.opts }),
		config.Module(),  // 1. 配置(不依赖其他)
		log.Module(),     // 2. 日志(依赖配置)
		metrics.Module(), // 3. 指标注册表(依赖日志)
	}
}

// SetupBusinessLayer 设置业务逻辑层模块
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		gateway.Module(), // 网关分发引擎与内置处理器
		fx.Populate(&b.gateway),
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	var modules []fx.Option

	// 嵌入方模块先于 HTTP 服务装配，自定义处理器在处理器表冻结前完成注册
	modules = append(modules, b.opts.extraModules...)

	if b.opts.enableAPI {
		modules = append(modules,
			api.Module(),
			fx.Populate(&b.httpServer),
		)
	}
	return modules
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() []fx.Option {
	var allModules []fx.Option

	// 按照依赖顺序添加各层模块
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupBusinessLayer()...)
	allModules = append(allModules, b.SetupApplicationLayer()...)

	return allModules
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	appOptions := []fx.Option{
		fx.Options(b.SetupModules()...),

		// 禁用fx内部日志
		fx.NopLogger,

		fx.Invoke(func(lifecycle fx.Lifecycle, logger *zap.Logger, provider ifconfig.Provider) {
			lifecycle.Append(fx.Hook{
				OnStart: func(context.Context) error {
					logger.Info("CCIP gateway started",
						zap.String("app", provider.GetAppName()),
						zap.String("version", version.GetVersion()),
						zap.String("environment", provider.GetEnvironment()),
					)
					return nil
				},
				OnStop: func(context.Context) error {
					logger.Info("CCIP gateway stopping")
					return nil
				},
			})
		}),
	}

	b.fxApp = fx.New(appOptions...)
	if err := b.fxApp.Err(); err != nil {
		return err
	}
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("stop application: %w", err)
	}
	return nil
}

// BootstrapApp 执行完整的引导过程并返回应用实例
func BootstrapApp(appOptions ...Option) (App, error) {
	opts := newOptions(appOptions...)

	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	opts.appConfig = cfg

	bootstrap := NewBootstrap(opts)
	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), startTimeout)
	defer startupCancel()

	if err := bootstrap.StartApp(startupCtx); err != nil {
		return nil, err
	}

	return &internalApp{bootstrap: bootstrap}, nil
}
