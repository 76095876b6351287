package api

import "time"

// API服务默认配置值
const (
	// defaultHTTPHost HTTP监听地址设为0.0.0.0
	// 网关需要被任意客户端访问
	defaultHTTPHost = "0.0.0.0"

	// defaultHTTPPort HTTP端口设为8080
	defaultHTTPPort = 8080

	// defaultRequestTimeout 单次网关调用超时设为10秒
	// 客户端（ethers/viem）的 CCIP-Read 默认等待时间通常在10秒量级
	defaultRequestTimeout = 10 * time.Second

	// defaultReadTimeout / defaultWriteTimeout 连接读写超时
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second

	// defaultShutdownTimeout 优雅关闭等待时间
	defaultShutdownTimeout = 10 * time.Second

	// defaultMaxBodyBytes POST 请求体上限设为1MB
	// callData 通常只有几百字节，1MB 足以覆盖批量解析类请求
	defaultMaxBodyBytes = 1 << 20

	// defaultCORSEnabled 默认启用CORS
	// EIP-3668 要求网关对浏览器客户端开放跨域访问
	defaultCORSEnabled = true

	// defaultEnableMetrics 默认暴露 /metrics
	defaultEnableMetrics = true

	// defaultEnableHealth 默认暴露 /health
	defaultEnableHealth = true
)

// defaultCORSOrigins 默认允许所有来源
var defaultCORSOrigins = []string{"*"}
