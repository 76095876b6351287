// Package types 定义网关 HTTP 层的请求与响应格式
package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	ccipTypes "github.com/weisyn/ccip-gateway/pkg/types"
)

// CallRequest POST 请求体
//
// calldata 为 data 的别名，两者同时出现时以 data 为准。
type CallRequest struct {
	Sender   string `json:"sender"`
	Data     string `json:"data,omitempty"`
	CallData string `json:"calldata,omitempty"`
}

// Payload 返回调用数据字段
func (r *CallRequest) Payload() string {
	if r.Data != "" {
		return r.Data
	}
	return r.CallData
}

// SuccessResponse 成功响应 {"data": "0x…"}
type SuccessResponse struct {
	Data string `json:"data"`
}

// ErrorResponse 错误响应 {"message": "…", "code": n}
type ErrorResponse struct {
	Message string `json:"message"`
	Code    *int64 `json:"code,omitempty"` // 仅处理器显式给出错误码时出现
}

// NewErrorResponse 创建不带错误码的错误响应
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Message: message}
}

// FromCCIPResponse 将网关结果转换为 HTTP 状态码与响应体
func FromCCIPResponse(resp *ccipTypes.CCIPResponse) (int, interface{}) {
	if resp.OK() {
		return resp.Status(), &SuccessResponse{Data: hexutil.Encode(resp.Data)}
	}
	body := &ErrorResponse{Message: resp.Err.Message}
	if resp.Err.Code != 0 {
		code := resp.Err.Code
		body.Code = &code
	}
	return resp.Status(), body
}

// HealthResponse /health 响应
type HealthResponse struct {
	Status   string `json:"status"`
	Handlers int    `json:"handlers"`
	Uptime   string `json:"uptime"`
}
