package api

import (
	"net"
	"strconv"
	"time"

	"github.com/weisyn/ccip-gateway/pkg/types"
)

// APIOptions API服务配置选项
type APIOptions struct {
	HTTP HTTPConfig `json:"http"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	// 基础配置
	Host string `json:"host"` // 监听地址
	Port int    `json:"port"` // 监听端口

	// 超时配置
	Timeout         time.Duration `json:"timeout"`          // 单次网关调用超时，0 表示不限制
	ReadTimeout     time.Duration `json:"read_timeout"`     // 读取超时时间
	WriteTimeout    time.Duration `json:"write_timeout"`    // 写入超时时间
	ShutdownTimeout time.Duration `json:"shutdown_timeout"` // 优雅关闭超时

	// CORS配置
	CORSEnabled bool     `json:"cors_enabled"` // 是否启用CORS
	CORSOrigins []string `json:"cors_origins"` // 允许的CORS源

	// 请求限制
	MaxBodyBytes int64 `json:"max_body_bytes"` // POST 请求体上限(字节)

	// 附加端点
	EnableMetrics bool `json:"enable_metrics"`
	EnableHealth  bool `json:"enable_health"`
}

// Addr 返回监听地址 host:port
func (h *HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
func New(userConfig *types.UserAPIConfig) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultAPIOptions()

	// 2. 如果有用户配置，则转换并覆盖默认配置
	if userConfig != nil {
		convertAndMergeUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultAPIOptions 创建默认API配置
func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Host:            defaultHTTPHost,
			Port:            defaultHTTPPort,
			Timeout:         defaultRequestTimeout,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
			CORSEnabled:     defaultCORSEnabled,
			CORSOrigins:     append([]string{}, defaultCORSOrigins...), // 复制切片
			MaxBodyBytes:    defaultMaxBodyBytes,
			EnableMetrics:   defaultEnableMetrics,
			EnableHealth:    defaultEnableHealth,
		},
	}
}

// convertAndMergeUserConfig 将用户配置转换并合并到默认配置中
// 使用指针类型来准确区分"未设置"和"设置为零值"
func convertAndMergeUserConfig(defaultOpts *APIOptions, userConfig *types.UserAPIConfig) {
	if userConfig.HTTPHost != nil {
		defaultOpts.HTTP.Host = *userConfig.HTTPHost
	}
	if userConfig.HTTPPort != nil {
		defaultOpts.HTTP.Port = *userConfig.HTTPPort
	}

	// CORS 配置
	if userConfig.HTTPCorsEnabled != nil {
		defaultOpts.HTTP.CORSEnabled = *userConfig.HTTPCorsEnabled
	}
	if len(userConfig.HTTPCorsOrigins) > 0 {
		defaultOpts.HTTP.CORSOrigins = append([]string{}, userConfig.HTTPCorsOrigins...)
	}

	// 超时：request_timeout_ms=0 表示关闭网关层超时
	if userConfig.RequestTimeoutMs != nil {
		defaultOpts.HTTP.Timeout = time.Duration(*userConfig.RequestTimeoutMs) * time.Millisecond
	}
	if userConfig.ShutdownTimeoutS != nil {
		defaultOpts.HTTP.ShutdownTimeout = time.Duration(*userConfig.ShutdownTimeoutS) * time.Second
	}
	if userConfig.MaxBodyBytes != nil {
		defaultOpts.HTTP.MaxBodyBytes = *userConfig.MaxBodyBytes
	}

	if userConfig.EnableMetrics != nil {
		defaultOpts.HTTP.EnableMetrics = *userConfig.EnableMetrics
	}
	if userConfig.EnableHealth != nil {
		defaultOpts.HTTP.EnableHealth = *userConfig.EnableHealth
	}
}

// GetOptions 获取完整的API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// GetHTTPConfig 获取HTTP配置
func (c *Config) GetHTTPConfig() *HTTPConfig {
	return &c.options.HTTP
}
