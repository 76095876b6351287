package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	Version *string `json:"version,omitempty"`  // 应用版本

	// Environment 运行环境：dev | test | prod
	// 只影响日志级别默认值和 gin 运行模式
	Environment *string `json:"environment,omitempty"`

	// API服务配置
	API *UserAPIConfig `json:"api,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 网关配置 - 对应配置文件中的 gateway 字段
	Gateway *UserGatewayConfig `json:"gateway,omitempty"`
}

// UserAPIConfig 用户API配置
// 只包含JSON配置文件中实际出现的字段
type UserAPIConfig struct {
	HTTPHost *string `json:"http_host,omitempty"` // HTTP监听地址（默认0.0.0.0）
	HTTPPort *int    `json:"http_port,omitempty"` // HTTP监听端口

	// HTTP CORS 配置（EIP-3668 要求网关允许跨域）
	HTTPCorsEnabled *bool    `json:"http_cors_enabled,omitempty"` // 是否启用CORS（默认true）
	HTTPCorsOrigins []string `json:"http_cors_origins,omitempty"` // 允许的CORS源（默认["*"]）

	// 超时与请求体限制
	RequestTimeoutMs *int   `json:"request_timeout_ms,omitempty"` // 单次调用超时（毫秒，0 表示不限制）
	ShutdownTimeoutS *int   `json:"shutdown_timeout_s,omitempty"` // 优雅关闭超时（秒）
	MaxBodyBytes     *int64 `json:"max_body_bytes,omitempty"`     // POST 请求体上限（字节）

	// 功能开关
	EnableMetrics *bool `json:"enable_metrics,omitempty"` // 是否暴露 /metrics（默认true）
	EnableHealth  *bool `json:"enable_health,omitempty"`  // 是否暴露 /health（默认true）
}

// UserLogConfig 用户日志配置
// 只包含JSON配置文件中实际出现的字段
type UserLogConfig struct {
	Level      *string `json:"level,omitempty"`       // 日志级别：debug, info, warn, error, fatal
	FilePath   *string `json:"file_path,omitempty"`   // 日志文件路径（为空时只输出控制台）
	MaxSizeMB  *int    `json:"max_size_mb,omitempty"` // 单个日志文件上限（MB）
	MaxBackups *int    `json:"max_backups,omitempty"` // 保留的旧日志文件数
	MaxAgeDays *int    `json:"max_age_days,omitempty"`
	Compress   *bool   `json:"compress,omitempty"`
	JSON       *bool   `json:"json,omitempty"` // 是否使用 JSON 编码输出
}

// UserGatewayConfig 用户网关配置
// 对应配置文件中的 gateway 字段
type UserGatewayConfig struct {
	// RoutePrefix 网关路由前缀（默认 /gateway）
	// GET {prefix}/{sender}/{data}.json 与 POST {prefix}
	RoutePrefix *string `json:"route_prefix,omitempty"`

	// Handlers 启用的内置处理器名称：echo | add | getBalance
	Handlers []string `json:"handlers,omitempty"`

	// RPCURL getBalance 处理器使用的以太坊节点 JSON-RPC 地址
	RPCURL *string `json:"rpc_url,omitempty"`

	// HandlerTimeoutMs 处理器执行超时（毫秒，0 表示只受请求上下文约束）
	HandlerTimeoutMs *int `json:"handler_timeout_ms,omitempty"`
}

// StringPtr 返回字符串指针，便于构造用户配置
func StringPtr(s string) *string { return &s }

// IntPtr 返回整数指针
func IntPtr(i int) *int { return &i }

// BoolPtr 返回布尔指针
func BoolPtr(b bool) *bool { return &b }
