// Package app 负责装配并运行 CCIP-Read 网关进程
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/weisyn/ccip-gateway/internal/core/infrastructure/log"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
	"github.com/weisyn/ccip-gateway/pkg/types"
)

// ConfigPathEnv 配置文件路径环境变量，优先级高于 WithConfigFile
const ConfigPathEnv = "CCIP_GATEWAY_CONFIG"

// stopTimeout 停止应用时等待各模块关闭的最长时间
const stopTimeout = 30 * time.Second

// App 是网关应用的对外接口
type App interface {
	// Stop 停止应用
	Stop() error

	// Wait 阻塞直到收到退出信号，然后停止应用
	Wait()

	// Gateway 返回网关门面
	Gateway() ccip.Gateway

	// HTTPAddr 返回 HTTP 实际监听地址，API 禁用时为空
	HTTPAddr() string
}

// internalApp 网关应用的内部实现
type internalApp struct {
	bootstrap *Bootstrap
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() {
	sig := WaitForSignal()
	log.With("signal", sig.String()).Info("Shutdown signal received")

	if err := a.Stop(); err != nil {
		log.With("error", err).Error("Failed to stop application")
	}
}

// Gateway 返回网关门面
func (a *internalApp) Gateway() ccip.Gateway {
	return a.bootstrap.gateway
}

// HTTPAddr 返回 HTTP 实际监听地址
func (a *internalApp) HTTPAddr() string {
	if a.bootstrap.httpServer == nil {
		return ""
	}
	return a.bootstrap.httpServer.Addr()
}

// Start 加载配置并启动网关应用
func Start(appOptions ...Option) (App, error) {
	return BootstrapApp(appOptions...)
}

// LoadConfig 按优先级解析应用配置
//
// 1. WithAppConfig 直接给出的配置
// 2. 环境变量 CCIP_GATEWAY_CONFIG 指定的文件
// 3. WithConfigFile 指定的文件
// 4. WithEmbeddedConfig 嵌入的配置
// 5. 全部缺省时使用默认配置
func LoadConfig(appOptions ...Option) (*types.AppConfig, error) {
	return newOptions(appOptions...).loadConfig()
}

func (o *options) loadConfig() (*types.AppConfig, error) {
	if o.appConfig != nil {
		return o.appConfig, nil
	}

	path := o.configFilePath
	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		path = envPath
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		cfg, err := ParseConfig(data)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		return cfg, nil
	}

	if len(o.embeddedConfig) > 0 {
		cfg, err := ParseConfig(o.embeddedConfig)
		if err != nil {
			return nil, fmt.Errorf("parse embedded config: %w", err)
		}
		return cfg, nil
	}

	return &types.AppConfig{}, nil
}

// ParseConfig 解析 JSON 配置，未知字段视为错误
func ParseConfig(data []byte) (*types.AppConfig, error) {
	var cfg types.AppConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WaitForSignal 等待退出信号
func WaitForSignal() os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	return <-signals
}
