package gateway

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 未解析出选择器时使用的标签值，避免任意调用数据撑大标签基数
const (
	selectorNone    = "none"
	selectorUnknown = "unknown"
	kindNone        = "none"
)

// gatewayMetrics 网关调用指标，nil 时所有方法为空操作
type gatewayMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newGatewayMetrics(reg prometheus.Registerer) *gatewayMetrics {
	if reg == nil {
		return nil
	}
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccip",
		Subsystem: "gateway",
		Name:      "calls_total",
		Help:      "Number of CCIP-Read calls by selector, status and error kind.",
	}, []string{"selector", "status", "kind"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ccip",
		Subsystem: "gateway",
		Name:      "handler_duration_seconds",
		Help:      "Handler execution time for dispatched CCIP-Read calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"selector"})

	return &gatewayMetrics{
		calls:    registerOrExisting(reg, calls),
		duration: registerOrExisting(reg, duration),
	}
}

// registerOrExisting 注册采集器；同名采集器已存在时复用已注册的实例
func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *gatewayMetrics) observeCall(selector string, status int, kind string) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(selector, strconv.Itoa(status), kind).Inc()
}

func (m *gatewayMetrics) observeHandler(selector string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(selector).Observe(d.Seconds())
}
