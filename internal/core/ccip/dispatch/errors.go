package dispatch

import (
	"fmt"

	"github.com/weisyn/ccip-gateway/pkg/types"
)

// RequestError 请求本身不合法（过短、未知选择器、参数解码失败）
type RequestError struct {
	Kind     types.ErrorKind
	Selector types.Selector
	Length   int    // 调用数据长度，仅 too_short 使用
	Sig      string // 处理器签名，仅 decode_failed 使用
	Cause    error
}

// Error 实现 error 接口
func (e *RequestError) Error() string {
	switch e.Kind {
	case types.ErrKindTooShort:
		return fmt.Sprintf("call data too short: need at least %d bytes, got %d", types.SelectorLength, e.Length)
	case types.ErrKindUnknownSelector:
		return "No implementation for function with selector " + e.Selector.Hex()
	case types.ErrKindDecodeFailed:
		return fmt.Sprintf("invalid arguments for %s: %v", e.Sig, e.Cause)
	default:
		return fmt.Sprintf("bad request: %v", e.Cause)
	}
}

// Unwrap 返回底层原因
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Class 返回错误归类：未知选择器为 NotFound，其余为 Client
func (e *RequestError) Class() types.ErrorClass {
	if e.Kind == types.ErrKindUnknownSelector {
		return types.ClassNotFound
	}
	return types.ClassClient
}

// GatewayError 转换为对外错误
func (e *RequestError) GatewayError() *types.GatewayError {
	return &types.GatewayError{Kind: e.Kind, Class: e.Class(), Message: e.Error()}
}

// EncodingError 处理器返回值与声明的 returns 类型不符
type EncodingError struct {
	Sig   string
	Cause error
}

// Error 实现 error 接口
func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode result of %s: %v", e.Sig, e.Cause)
}

// Unwrap 返回底层原因
func (e *EncodingError) Unwrap() error {
	return e.Cause
}
