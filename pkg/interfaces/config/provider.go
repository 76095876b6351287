// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/weisyn/ccip-gateway/internal/config/api"
	gatewayconfig "github.com/weisyn/ccip-gateway/internal/config/gateway"
	logconfig "github.com/weisyn/ccip-gateway/internal/config/log"
)

// Provider 配置提供者接口
type Provider interface {
	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetGateway 获取网关分发引擎配置
	GetGateway() *gatewayconfig.GatewayOptions

	// GetEnvironment 获取运行环境
	// 返回运行环境字符串：dev | test | prod
	// 未配置时默认为 "prod"
	GetEnvironment() string

	// GetAppName 获取应用名称
	GetAppName() string
}
