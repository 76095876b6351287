package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/weisyn/ccip-gateway/internal/config/gateway"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/config"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// ValidationError 配置验证错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// ValidationErrors 多个验证错误
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	msg := "config validation failed:\n"
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap 支持 errors.As 取出单个 ValidationError
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// Validate 启动前校验配置
//
// 校验项：
// - api.http_port 在 0~65535 之间
// - 超时与请求体上限非负
// - 日志级别合法
// - 网关处理器名称已知；启用 getBalance 时 rpc_url 必须是合法的 http(s)/ws(s) 地址
func Validate(provider config.Provider) error {
	var errs []error
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	httpCfg := provider.GetAPI().HTTP
	// 0 表示由系统分配端口
	if httpCfg.Port < 0 || httpCfg.Port > 65535 {
		add("api.http_port", "port %d out of range 0-65535", httpCfg.Port)
	}
	if httpCfg.Timeout < 0 {
		add("api.request_timeout_ms", "must not be negative")
	}
	if httpCfg.ShutdownTimeout < 0 {
		add("api.shutdown_timeout_s", "must not be negative")
	}
	if httpCfg.MaxBodyBytes <= 0 {
		add("api.max_body_bytes", "must be positive, got %d", httpCfg.MaxBodyBytes)
	}

	if level := types.LogLevel(provider.GetLog().Level); !level.Valid() {
		add("log.level", "unknown log level %q", level)
	}

	gw := provider.GetGateway()
	if gw.HandlerTimeout < 0 {
		add("gateway.handler_timeout_ms", "must not be negative")
	}
	for _, name := range gw.Handlers {
		if !isKnownHandler(name) {
			add("gateway.handlers", "unknown handler %q (known: %s)", name, strings.Join(gateway.KnownHandlers, ", "))
		}
	}
	if gw.HasHandler("getBalance") {
		u, err := url.Parse(gw.RPCURL)
		if err != nil || u.Host == "" {
			add("gateway.rpc_url", "invalid RPC URL %q", gw.RPCURL)
		} else {
			switch u.Scheme {
			case "http", "https", "ws", "wss":
			default:
				add("gateway.rpc_url", "unsupported scheme %q", u.Scheme)
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func isKnownHandler(name string) bool {
	for _, h := range gateway.KnownHandlers {
		if h == name {
			return true
		}
	}
	return false
}
