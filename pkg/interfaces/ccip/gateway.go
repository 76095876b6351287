// Package ccip 定义 CCIP-Read（EIP-3668）网关的对外接口
//
// 应用通过 Gateway 注册处理器，HTTP 层通过 Gateway.Call 执行一次
// 解码→分发→编码流程。
package ccip

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/weisyn/ccip-gateway/pkg/types"
)

// HandlerFunc 处理器函数
//
// 返回值需与注册签名的 returns 类型逐项对应；返回 *types.HandlerError
// 可指定错误归类与错误码，返回普通 error 时按服务端错误处理且保留原始消息。
type HandlerFunc func(ctx context.Context, req *types.DecodedRequest) ([]types.Value, error)

// Registrar 处理器注册接口
type Registrar interface {
	// Add 按 Solidity 函数签名注册处理器，如 "add(uint256,uint256) returns (uint256)"
	Add(signature string, fn HandlerFunc) error

	// AddABI 按 JSON ABI 中的函数名注册处理器
	AddABI(abiJSON string, method string, fn HandlerFunc) error
}

// Gateway 网关门面接口
type Gateway interface {
	Registrar

	// Seal 冻结处理器表，此后注册将失败；首次 Call 会隐式调用
	Seal()

	// Sealed 处理器表是否已冻结
	Sealed() bool

	// Call 处理一次请求，从不返回错误，失败信息体现在响应的 Err 中
	Call(ctx context.Context, sender common.Address, callData []byte) *types.CCIPResponse

	// Handlers 返回已注册处理器的描述，按签名排序
	Handlers() []types.HandlerInfo
}
