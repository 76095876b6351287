// Package metrics 提供网关统一的 Prometheus 指标注册表
//
// 所有组件通过 prometheus.Registerer 注册指标，/metrics 端点通过
// prometheus.Gatherer 导出，避免依赖全局默认注册表。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Namespace 网关指标命名空间
const Namespace = "ccip"

// Module 返回 metrics 模块的 fx.Option
//
// 提供：
// - *prometheus.Registry
// - prometheus.Registerer / prometheus.Gatherer（同一注册表）
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(
			NewRegistryProvider,
			func(r *prometheus.Registry) prometheus.Registerer { return r },
			func(r *prometheus.Registry) prometheus.Gatherer { return r },
		),
	)
}

// RegistryProviderInput 定义注册表的输入依赖
type RegistryProviderInput struct {
	fx.In

	Logger *zap.Logger `optional:"true"`
}

// NewRegistryProvider 创建注册表实例
func NewRegistryProvider(input RegistryProviderInput) *prometheus.Registry {
	reg := NewRegistry()
	if input.Logger != nil {
		input.Logger.With(zap.String("module", "metrics")).
			Debug("Prometheus registry initialized")
	}
	return reg
}

// NewRegistry 创建带有 Go 运行时与进程采集器的注册表
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: Namespace}),
		collectors.NewBuildInfoCollector(),
	)
	return reg
}
