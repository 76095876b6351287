package config

import (
	"strings"

	"github.com/weisyn/ccip-gateway/internal/config/api"
	"github.com/weisyn/ccip-gateway/internal/config/gateway"
	"github.com/weisyn/ccip-gateway/internal/config/log"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/config"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

const defaultAppName = "ccip-gateway"

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	return &Provider{
		appConfig: appConfig,
	}
}

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions {
	// 直接传递用户API配置给api.New，让它处理默认值和转换
	var userAPIConfig *types.UserAPIConfig
	if p.appConfig != nil && p.appConfig.API != nil {
		userAPIConfig = p.appConfig.API
	}
	return api.New(userAPIConfig).GetOptions()
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil && p.appConfig.Log != nil {
		userLogConfig = p.appConfig.Log
	}
	options := log.New(userLogConfig).GetOptions()

	// 未显式配置日志级别时，dev 环境默认输出 debug 日志
	if (userLogConfig == nil || userLogConfig.Level == nil) && p.GetEnvironment() == "dev" {
		options.Level = string(types.DebugLevel)
	}
	return options
}

// GetGateway 获取网关分发引擎配置
func (p *Provider) GetGateway() *gateway.GatewayOptions {
	var userGatewayConfig *types.UserGatewayConfig
	if p.appConfig != nil && p.appConfig.Gateway != nil {
		userGatewayConfig = p.appConfig.Gateway
	}
	return gateway.New(userGatewayConfig).GetOptions()
}

// GetEnvironment 获取运行环境，未配置或无效时返回 prod
func (p *Provider) GetEnvironment() string {
	if p.appConfig == nil || p.appConfig.Environment == nil {
		return "prod"
	}
	switch env := strings.ToLower(strings.TrimSpace(*p.appConfig.Environment)); env {
	case "dev", "test", "prod":
		return env
	default:
		return "prod"
	}
}

// GetAppName 获取应用名称
func (p *Provider) GetAppName() string {
	if p.appConfig != nil && p.appConfig.AppName != nil && *p.appConfig.AppName != "" {
		return *p.appConfig.AppName
	}
	return defaultAppName
}
