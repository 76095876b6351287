package app

import (
	"go.uber.org/fx"

	"github.com/weisyn/ccip-gateway/pkg/interfaces/config"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
// 实现config.AppOptions接口
type options struct {
	// 配置文件路径
	configFilePath string

	// 嵌入的配置内容（优先级低于configFilePath）
	embeddedConfig []byte

	// 直接给出的用户配置（优先级最高）
	appConfig *types.AppConfig

	// API支持开关 (默认启用)
	enableAPI bool

	// 嵌入方追加的 fx 模块，通常用于注册自定义处理器
	extraModules []fx.Option
}

// 编译时校验options是否实现了config.AppOptions接口
var _ config.AppOptions = (*options)(nil)

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithEmbeddedConfig 设置嵌入的配置内容
// 未指定配置文件时使用，无需在磁盘上放置配置文件
func WithEmbeddedConfig(configBytes []byte) Option {
	return func(o *options) {
		o.embeddedConfig = configBytes
	}
}

// WithAppConfig 直接使用给定的配置，忽略配置文件
func WithAppConfig(cfg *types.AppConfig) Option {
	return func(o *options) {
		o.appConfig = cfg
	}
}

// WithAPI 启用API模块
func WithAPI() Option {
	return func(o *options) {
		o.enableAPI = true
	}
}

// WithoutAPI 禁用API模块
func WithoutAPI() Option {
	return func(o *options) {
		o.enableAPI = false
	}
}

// WithModules 追加 fx 模块
//
// 示例：
//
//	app.WithModules(fx.Invoke(func(s *gateway.Server) error {
//		return s.Add("addr(bytes32) returns (address)", resolveAddr)
//	}))
func WithModules(modules ...fx.Option) Option {
	return func(o *options) {
		o.extraModules = append(o.extraModules, modules...)
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	options := &options{
		// API默认启用
		enableAPI: true,
	}

	// 应用自定义选项
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// GetAppConfig 返回应用程序配置
func (o *options) GetAppConfig() *types.AppConfig {
	return o.appConfig
}
