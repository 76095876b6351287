package gateway

import "time"

// 网关默认配置值
const (
	// defaultRoutePrefix 默认路由前缀
	// GET /gateway/{sender}/{data}.json 与 POST /gateway
	defaultRoutePrefix = "/gateway"

	// defaultHandlerTimeout 处理器默认不单独限时，只受请求上下文约束
	defaultHandlerTimeout = time.Duration(0)

	// defaultRPCURL getBalance 处理器默认连接本地节点
	defaultRPCURL = "http://127.0.0.1:8545"
)

// defaultHandlers 默认启用的内置处理器
var defaultHandlers = []string{"echo", "add"}

// KnownHandlers 可通过配置启用的内置处理器名称
var KnownHandlers = []string{"echo", "add", "getBalance"}
