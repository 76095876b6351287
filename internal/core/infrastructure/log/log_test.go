package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logconfig "github.com/weisyn/ccip-gateway/internal/config/log"
)

// fileOnlyConfig 返回只写文件的日志配置
func fileOnlyConfig(path, level string) *logconfig.Config {
	opts := *logconfig.New(nil).GetOptions()
	opts.Level = level
	opts.ToConsole = false
	opts.FilePath = path
	return logconfig.NewFromOptions(&opts)
}

func readLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

// TestFileLogging 测试写入文件的JSON日志
func TestFileLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gateway.log")
	logger, err := New(fileOnlyConfig(path, InfoLevel))
	require.NoError(t, err)

	logger.Debug("不应出现")
	logger.Info("gateway started")
	logger.With("selector", "0x771602f7", "status", 200).Warn("slow handler")
	require.NoError(t, logger.Sync())

	entries := readLines(t, path)
	require.Len(t, entries, 2)

	t.Run("级别过滤", func(t *testing.T) {
		assert.Equal(t, "info", entries[0]["level"])
		assert.Equal(t, "gateway started", entries[0]["message"])
	})

	t.Run("结构化字段", func(t *testing.T) {
		assert.Equal(t, "warn", entries[1]["level"])
		assert.Equal(t, "0x771602f7", entries[1]["selector"])
		assert.Equal(t, float64(200), entries[1]["status"])
	})

	t.Run("调用者信息", func(t *testing.T) {
		caller, ok := entries[0]["caller"].(string)
		require.True(t, ok)
		assert.Contains(t, caller, "log_test.go")
	})
}

// TestNewWithoutOutputs 测试没有输出时不报错
func TestNewWithoutOutputs(t *testing.T) {
	opts := *logconfig.New(nil).GetOptions()
	opts.ToConsole = false
	opts.FilePath = ""
	logger, err := New(logconfig.NewFromOptions(&opts))
	require.NoError(t, err)
	assert.NotPanics(t, func() { logger.Info("discarded") })
}

// TestWithOddArgs 测试奇数个键值参数
func TestWithOddArgs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	logger.With("k1", "v1", "dangling").Info("odd")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "v1", fields["k1"])
	assert.NotContains(t, fields, "dangling")
}

// TestModuleLoggers 测试带 module 字段的日志器
func TestModuleLoggers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	NewModuleZapLogger(zap.New(core), "gateway").Info("zap")
	NewModuleLogger(NewFromZap(zap.New(core)), "api").Info("iface")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "gateway", logs.All()[0].ContextMap()["module"])
	assert.Equal(t, "api", logs.All()[1].ContextMap()["module"])

	t.Run("空日志器", func(t *testing.T) {
		assert.Nil(t, NewModuleLogger(nil, "x"))
		assert.NotNil(t, NewModuleZapLogger(nil, "x"))
	})
}

// TestGlobalLogger 测试全局日志记录器的设置与重置
func TestGlobalLogger(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	core, logs := observer.New(zapcore.InfoLevel)
	custom := NewFromZap(zap.New(core))
	SetLogger(custom)
	assert.Same(t, custom, GetLogger())

	Info("global info")
	Debugf("hidden %d", 1)
	With("request_id", "abc").Errorf("failed: %s", "boom")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "global info", logs.All()[0].Message)
	assert.Equal(t, "failed: boom", logs.All()[1].Message)
	assert.Equal(t, "abc", logs.All()[1].ContextMap()["request_id"])

	t.Run("SetLogger忽略nil", func(t *testing.T) {
		SetLogger(nil)
		assert.Same(t, custom, GetLogger())
	})

	t.Run("重置为默认", func(t *testing.T) {
		ResetDefault()
		assert.NotSame(t, custom, GetLogger())
		assert.NotNil(t, GetLogger())
	})
}
