package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrBadSignature 签名无法解析
	ErrBadSignature = errors.New("bad signature")
	// ErrDuplicateSelector 选择器与已注册的处理器冲突
	ErrDuplicateSelector = errors.New("duplicate selector")
	// ErrRegistrySealed 处理器表已冻结
	ErrRegistrySealed = errors.New("registry sealed")
	// ErrNilHandler 处理器函数为空
	ErrNilHandler = errors.New("nil handler")
)

// ConfigError 启动期配置错误，出现时网关不应对外服务
type ConfigError struct {
	Kind      error  // ErrBadSignature / ErrDuplicateSelector / ErrRegistrySealed / ErrNilHandler
	Signature string // 触发错误的签名文本
	Detail    string
	Cause     error
}

// Error 实现 error 接口
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("handler config error (%v)", e.Kind)
	if e.Signature != "" {
		msg += fmt.Sprintf(" for %q", e.Signature)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap 支持 errors.Is 同时匹配错误种类与底层原因
func (e *ConfigError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}
