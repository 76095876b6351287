// Package config 提供应用配置管理功能
package config

import (
	"go.uber.org/fx"

	apiconfig "github.com/weisyn/ccip-gateway/internal/config/api"
	gatewayconfig "github.com/weisyn/ccip-gateway/internal/config/gateway"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/config"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 应用配置选项
	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			// 提供具体的配置类型用于依赖注入
			func(provider config.Provider) *apiconfig.APIOptions {
				return provider.GetAPI()
			},
			func(provider config.Provider) *gatewayconfig.GatewayOptions {
				return provider.GetGateway()
			},
		),
	)
}

// ProvideConfigServices 提供配置服务
// 启动前校验配置，校验失败时应用不会启动
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	// 从应用配置选项获取用户配置
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}

	// 创建配置提供者
	provider := NewProvider(appConfig)
	if err := Validate(provider); err != nil {
		return ConfigOutput{}, err
	}

	return ConfigOutput{
		Provider: provider,
	}, nil
}
