package log

import "github.com/weisyn/ccip-gateway/pkg/types"

// LogLevel 日志级别（定义在 pkg/types，配置层与实现层共用）
type LogLevel = types.LogLevel

const (
	DebugLevel = types.DebugLevel
	InfoLevel  = types.InfoLevel
	WarnLevel  = types.WarnLevel
	ErrorLevel = types.ErrorLevel
	FatalLevel = types.FatalLevel
)
