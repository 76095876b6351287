package gateway

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"

	gatewayconfig "github.com/weisyn/ccip-gateway/internal/config/gateway"
	"github.com/weisyn/ccip-gateway/internal/core/ccip/handlers"
	logmodule "github.com/weisyn/ccip-gateway/internal/core/infrastructure/log"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
)

// ModuleParams 网关模块的依赖参数
type ModuleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Logger     *zap.Logger                   `optional:"true"`
	Options    *gatewayconfig.GatewayOptions `optional:"true"`
	Registerer prometheus.Registerer         `optional:"true"`
}

// ModuleOutput 网关模块的输出
type ModuleOutput struct {
	fx.Out

	Server  *Server
	Gateway ccip.Gateway
}

// Module 返回网关模块
//
// 提供 *Server 与 ccip.Gateway；应用可在 fx.Invoke 中继续注册自定义处理器，
// 处理器表在 OnStart 阶段冻结。
func Module() fx.Option {
	return fx.Module("gateway",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建网关门面并注册配置中启用的内置处理器
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	opts := params.Options
	if opts == nil {
		opts = gatewayconfig.New(nil).GetOptions()
	}
	logger := logmodule.NewModuleZapLogger(params.Logger, "ccip")

	srv := NewServer(logger, Config{
		HandlerTimeout: opts.HandlerTimeout,
		Registerer:     params.Registerer,
	})

	var deps handlers.Deps
	var client *ethclient.Client
	if opts.HasHandler(handlers.NameGetBalance) {
		c, err := ethclient.Dial(opts.RPCURL)
		if err != nil {
			return ModuleOutput{}, fmt.Errorf("dial ethereum node %s: %w", opts.RPCURL, err)
		}
		client = c
		deps.Balances = c
	}

	if err := handlers.Register(srv, opts.Handlers, deps); err != nil {
		if client != nil {
			client.Close()
		}
		return ModuleOutput{}, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			srv.Seal()
			for _, h := range srv.Handlers() {
				logger.Info("CCIP handler available",
					zap.String("selector", h.Selector.Hex()),
					zap.String("signature", h.Signature))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			if client != nil {
				client.Close()
			}
			return nil
		},
	})

	return ModuleOutput{Server: srv, Gateway: srv}, nil
}
