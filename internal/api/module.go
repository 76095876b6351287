// Package api 组装网关对外提供的传输层
package api

import (
	"go.uber.org/fx"

	"github.com/weisyn/ccip-gateway/internal/api/http"
)

// Module 返回API模块选项
// 目前只有 HTTP 传输：EIP-3668 客户端只通过 HTTP GET/POST 访问网关
func Module() fx.Option {
	return fx.Module("api",
		http.Module(),
	)
}
