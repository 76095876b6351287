// Package gateway 提供网关分发引擎的配置
package gateway

import (
	"strings"
	"time"

	"github.com/weisyn/ccip-gateway/pkg/types"
)

// GatewayOptions 网关配置选项
type GatewayOptions struct {
	RoutePrefix    string        `json:"route_prefix"`    // 路由前缀，以 / 开头且不以 / 结尾
	Handlers       []string      `json:"handlers"`        // 启用的内置处理器
	RPCURL         string        `json:"rpc_url"`         // 以太坊节点 JSON-RPC 地址
	HandlerTimeout time.Duration `json:"handler_timeout"` // 处理器执行超时，0 表示不限制
}

// HasHandler 是否启用了指定名称的内置处理器
func (o *GatewayOptions) HasHandler(name string) bool {
	for _, h := range o.Handlers {
		if h == name {
			return true
		}
	}
	return false
}

// Config 网关配置实现
type Config struct {
	options *GatewayOptions
}

// New 创建网关配置实现
func New(userConfig *types.UserGatewayConfig) *Config {
	options := createDefaultGatewayOptions()
	if userConfig != nil {
		applyUserGatewayConfig(options, userConfig)
	}
	return &Config{options: options}
}

func createDefaultGatewayOptions() *GatewayOptions {
	return &GatewayOptions{
		RoutePrefix:    defaultRoutePrefix,
		Handlers:       append([]string{}, defaultHandlers...),
		RPCURL:         defaultRPCURL,
		HandlerTimeout: defaultHandlerTimeout,
	}
}

func applyUserGatewayConfig(options *GatewayOptions, userConfig *types.UserGatewayConfig) {
	if userConfig.RoutePrefix != nil {
		options.RoutePrefix = NormalizePrefix(*userConfig.RoutePrefix)
	}
	// handlers 显式给出空数组时表示不启用任何内置处理器
	if userConfig.Handlers != nil {
		options.Handlers = append([]string{}, userConfig.Handlers...)
	}
	if userConfig.RPCURL != nil {
		options.RPCURL = *userConfig.RPCURL
	}
	if userConfig.HandlerTimeoutMs != nil {
		options.HandlerTimeout = time.Duration(*userConfig.HandlerTimeoutMs) * time.Millisecond
	}
}

// NormalizePrefix 规范化路由前缀："gateway/" → "/gateway"，"" 与 "/" → ""
func NormalizePrefix(prefix string) string {
	p := strings.Trim(strings.TrimSpace(prefix), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// GetOptions 获取完整的网关配置选项
func (c *Config) GetOptions() *GatewayOptions {
	return c.options
}
