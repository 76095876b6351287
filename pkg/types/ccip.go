package types

import (
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
)

// SelectorLength 函数选择器长度（字节）
const SelectorLength = 4

// Selector 4字节函数选择器
type Selector [SelectorLength]byte

// BytesToSelector 从字节切片前4字节构造选择器，不足4字节时返回 false
func BytesToSelector(b []byte) (Selector, bool) {
	var s Selector
	if len(b) < SelectorLength {
		return s, false
	}
	copy(s[:], b[:SelectorLength])
	return s, true
}

// Hex 返回 0x 前缀的十六进制形式
func (s Selector) Hex() string {
	return "0x" + hex.EncodeToString(s[:])
}

// String 实现 fmt.Stringer
func (s Selector) String() string {
	return s.Hex()
}

// MarshalText 以十六进制文本形式序列化
func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.Hex()), nil
}

// DecodedRequest 解码后的 CCIP-Read 请求
//
// 由请求解码器按每个请求创建，交给分发器和处理器使用，不做持久化。
type DecodedRequest struct {
	Sender    common.Address // 发起 OffchainLookup 的合约地址
	Selector  Selector       // 网关侧函数选择器
	Signature string         // 处理器注册时的完整签名，如 add(uint256,uint256) returns (uint256)
	Args      []Value        // 按输入类型解码的参数
	CallData  []byte         // 原始调用数据（含选择器）
}

// Arg 按位置获取参数，越界时返回 false
func (r *DecodedRequest) Arg(i int) (Value, bool) {
	if r == nil || i < 0 || i >= len(r.Args) {
		return Value{}, false
	}
	return r.Args[i], true
}

// ErrorClass 错误归类，决定 HTTP 状态码
type ErrorClass uint8

const (
	// ClassServer 服务端错误（默认）
	ClassServer ErrorClass = iota
	// ClassClient 客户端输入导致的错误
	ClassClient
	// ClassNotFound 未注册的选择器
	ClassNotFound
	// ClassTimeout 处理器执行超时
	ClassTimeout
	// ClassCanceled 请求被取消
	ClassCanceled
)

// String 返回归类名称
func (c ErrorClass) String() string {
	switch c {
	case ClassClient:
		return "client"
	case ClassNotFound:
		return "not_found"
	case ClassTimeout:
		return "timeout"
	case ClassCanceled:
		return "canceled"
	default:
		return "server"
	}
}

// HTTPStatus 将错误归类映射为 HTTP 状态码
func (c ErrorClass) HTTPStatus() int {
	switch c {
	case ClassClient:
		return http.StatusBadRequest
	case ClassNotFound:
		return http.StatusNotFound
	case ClassTimeout:
		return http.StatusGatewayTimeout
	case ClassCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandlerError 处理器返回的结构化错误
//
// Class 必须由处理器显式给出；处理器返回普通 error 时按 ClassServer 处理。
type HandlerError struct {
	Message string
	Code    int64 // 应用自定义错误码，0 表示未设置
	Class   ErrorClass
}

// Error 实现 error 接口
func (e *HandlerError) Error() string {
	return e.Message
}

// HasCode 是否携带应用错误码
func (e *HandlerError) HasCode() bool {
	return e.Code != 0
}

// NewHandlerError 创建处理器错误
func NewHandlerError(class ErrorClass, code int64, format string, args ...interface{}) *HandlerError {
	return &HandlerError{
		Message: fmt.Sprintf(format, args...),
		Code:    code,
		Class:   class,
	}
}

// ClientError 创建客户端归类的处理器错误（HTTP 400）
func ClientError(format string, args ...interface{}) *HandlerError {
	return NewHandlerError(ClassClient, 0, format, args...)
}

// ServerError 创建服务端归类的处理器错误（HTTP 500）
func ServerError(format string, args ...interface{}) *HandlerError {
	return NewHandlerError(ClassServer, 0, format, args...)
}

// ErrorKind 网关错误来源
type ErrorKind string

const (
	ErrKindTooShort        ErrorKind = "too_short"
	ErrKindUnknownSelector ErrorKind = "unknown_selector"
	ErrKindDecodeFailed    ErrorKind = "decode_failed"
	ErrKindHandler         ErrorKind = "handler"
	ErrKindEncoding        ErrorKind = "encoding"
)

// GatewayError 返回给传输层的结构化错误
type GatewayError struct {
	Kind    ErrorKind
	Class   ErrorClass
	Message string
	Code    int64 // 0 表示未设置
}

// Error 实现 error 接口
func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Status 返回对应的 HTTP 状态码
func (e *GatewayError) Status() int {
	return e.Class.HTTPStatus()
}

// CCIPResponse 一次 Call 的结果：Data 与 Err 有且仅有一个生效
type CCIPResponse struct {
	Data []byte
	Err  *GatewayError
}

// OK 是否为成功响应
func (r *CCIPResponse) OK() bool {
	return r != nil && r.Err == nil
}

// Status 返回对应的 HTTP 状态码
func (r *CCIPResponse) Status() int {
	if r.Err != nil {
		return r.Err.Status()
	}
	return http.StatusOK
}

// DataResponse 构造成功响应
func DataResponse(data []byte) *CCIPResponse {
	if data == nil {
		data = []byte{}
	}
	return &CCIPResponse{Data: data}
}

// ErrorResponse 构造错误响应
func ErrorResponse(err *GatewayError) *CCIPResponse {
	return &CCIPResponse{Err: err}
}

// HandlerInfo 已注册处理器的描述信息
type HandlerInfo struct {
	Selector  Selector `json:"selector"`
	Signature string   `json:"signature"` // 完整签名，含 returns
	Canonical string   `json:"canonical"` // 参与选择器计算的规范文本 name(types)
}
