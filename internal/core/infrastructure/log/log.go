// Package log 提供了一个通用的日志接口和基于zap的实现
// 支持不同级别的日志记录、结构化字段以及基于 lumberjack 的文件轮转
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	logconfig "github.com/weisyn/ccip-gateway/internal/config/log"
	logInterface "github.com/weisyn/ccip-gateway/pkg/interfaces/infrastructure/log"
)

// 日志级别定义
const (
	DebugLevel = string(logInterface.DebugLevel)
	InfoLevel  = string(logInterface.InfoLevel)
	WarnLevel  = string(logInterface.WarnLevel)
	ErrorLevel = string(logInterface.ErrorLevel)
	FatalLevel = string(logInterface.FatalLevel)
)

var (
	// 全局日志实例，使用接口类型
	globalLogger logInterface.Logger
	// 用于保护全局日志实例的互斥锁
	mu sync.RWMutex
)

// Logger 是日志记录器的结构体，实现了log.Logger接口
type Logger struct {
	zapLogger *zap.Logger
	sugar     *zap.SugaredLogger
}

// 初始化全局日志记录器
func init() {
	ResetDefault()
}

// ResetDefault 重置全局日志记录器为默认配置
func ResetDefault() {
	logger, err := New(logconfig.New(nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize default logger: %v\n", err)
		return
	}
	SetLogger(logger)
}

// createFileWriter 创建带轮转的文件输出
func createFileWriter(logPath string, options *logconfig.LogOptions) (zapcore.WriteSyncer, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", logDir, err)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    options.MaxSize, // megabytes
		MaxBackups: options.MaxBackups,
		MaxAge:     options.MaxAge, // days
		Compress:   options.Compress,
	}), nil
}

// New 根据日志配置创建日志记录器
//
// 控制台与文件输出可同时启用；FilePath 为 "stdout" 或 "stderr" 时视为控制台输出。
func New(config *logconfig.Config) (logInterface.Logger, error) {
	if config == nil {
		config = logconfig.New(nil)
	}
	level := zap.NewAtomicLevelAt(config.GetZapLevel())
	outputPath := config.GetFilePath()

	var cores []zapcore.Core

	switch {
	case outputPath == "stderr":
		cores = append(cores, zapcore.NewCore(config.CreateConsoleEncoder(), zapcore.Lock(os.Stderr), level))
	case outputPath == "stdout" || config.IsConsoleEnabled():
		cores = append(cores, zapcore.NewCore(config.CreateConsoleEncoder(), zapcore.Lock(os.Stdout), level))
	}

	if outputPath != "" && outputPath != "stdout" && outputPath != "stderr" {
		absPath, err := filepath.Abs(outputPath)
		if err != nil {
			return nil, fmt.Errorf("resolve log file path: %w", err)
		}
		writer, err := createFileWriter(absPath, config.GetOptions())
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(config.CreateFileEncoder(), writer, level))
	}

	zapOptions := []zap.Option{}
	if config.IsCallerEnabled() {
		zapOptions = append(zapOptions, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if config.IsStacktraceEnabled() {
		zapOptions = append(zapOptions, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	// 没有任何输出时 NewTee 返回 NopCore
	zapLogger := zap.New(zapcore.NewTee(cores...), zapOptions...)
	return &Logger{
		zapLogger: zapLogger,
		sugar:     zapLogger.Sugar(),
	}, nil
}

// NewFromZap 包装一个现成的 zap.Logger，测试中常用 zaptest/observer
func NewFromZap(z *zap.Logger) logInterface.Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{zapLogger: z, sugar: z.Sugar()}
}

// GetZapLogger 获取原始的zap日志记录器
func (l *Logger) GetZapLogger() *zap.Logger {
	return l.zapLogger
}

// SetLogger 设置全局日志记录器
func SetLogger(logger logInterface.Logger) {
	if logger == nil {
		return
	}
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
}

// GetLogger 获取全局日志记录器
func GetLogger() logInterface.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

func current() logInterface.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Debug 使用全局日志记录器记录调试日志
func Debug(msg string) {
	if l := current(); l != nil {
		l.Debug(msg)
	}
}

// Debugf 使用全局日志记录器记录格式化调试日志
func Debugf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Debugf(format, args...)
	}
}

// Info 使用全局日志记录器记录信息日志
func Info(msg string) {
	if l := current(); l != nil {
		l.Info(msg)
	}
}

// Infof 使用全局日志记录器记录格式化信息日志
func Infof(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Infof(format, args...)
	}
}

// Warn 使用全局日志记录器记录警告日志
func Warn(msg string) {
	if l := current(); l != nil {
		l.Warn(msg)
	}
}

// Warnf 使用全局日志记录器记录格式化警告日志
func Warnf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Warnf(format, args...)
	}
}

// Error 使用全局日志记录器记录错误日志
func Error(msg string) {
	if l := current(); l != nil {
		l.Error(msg)
	}
}

// Errorf 使用全局日志记录器记录格式化错误日志
func Errorf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Errorf(format, args...)
	}
}

// With 返回带有额外字段的全局日志记录器
func With(args ...interface{}) logInterface.Logger {
	if l := current(); l != nil {
		return l.With(args...)
	}
	return NewFromZap(nil)
}

// Sync 同步全局日志记录器
func Sync() error {
	if l := current(); l != nil {
		return l.Sync()
	}
	return nil
}

// toZapFields 将键值对参数转换为zap字段
func toZapFields(args ...interface{}) []zap.Field {
	if len(args)%2 != 0 {
		// 奇数个参数时丢弃最后一个，保证键值对完整
		args = args[:len(args)-1]
	}

	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields = append(fields, zap.Any(key, args[i+1]))
	}
	return fields
}

// Debug 记录调试级别的日志
func (l *Logger) Debug(msg string) {
	l.sugar.Debug(msg)
}

// Debugf 使用格式化字符串记录调试级别的日志
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info 记录信息级别的日志
func (l *Logger) Info(msg string) {
	l.sugar.Info(msg)
}

// Infof 使用格式化字符串记录信息级别的日志
func (l *Logger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn 记录警告级别的日志
func (l *Logger) Warn(msg string) {
	l.sugar.Warn(msg)
}

// Warnf 使用格式化字符串记录警告级别的日志
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error 记录错误级别的日志
func (l *Logger) Error(msg string) {
	l.sugar.Error(msg)
}

// Errorf 使用格式化字符串记录错误级别的日志
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Fatal 记录致命级别的日志，然后退出程序
func (l *Logger) Fatal(msg string) {
	l.sugar.Fatal(msg)
}

// Fatalf 使用格式化字符串记录致命级别的日志，然后退出程序
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// With 返回一个带有额外字段的Logger
func (l *Logger) With(args ...interface{}) logInterface.Logger {
	z := l.zapLogger.With(toZapFields(args...)...)
	return &Logger{zapLogger: z, sugar: z.Sugar()}
}

// Sync 同步日志缓冲区到输出
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}
