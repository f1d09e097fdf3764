// Package metrics prometheus collectors for the HTTP surface and the equation store
// Package metrics HTTP 接口与公式存储的 prometheus 指标
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	defaultCollector *Collector
	defaultOnce      sync.Once
)

// Collector holds all prometheus metrics of the service
// Collector 服务的全部 prometheus 指标
type Collector struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
}

// NewCollector builds collectors and registers them on reg, nil reg skips registration
// NewCollector 创建指标并注册到 reg，reg 为 nil 时不注册
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "equation_store_operations_total",
			Help:      "Equation store operations by name and outcome",
		}, []string{"operation", "status"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "equation_store_operation_duration_seconds",
			Help:      "Equation store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(c.HTTPRequests, c.HTTPDuration, c.StoreOperations, c.StoreDuration)
	}
	return c
}

// Default collector registered once on the prometheus default registry
// Default 在 prometheus 默认注册表上只注册一次的采集器
func Default() *Collector {
	defaultOnce.Do(func() {
		defaultCollector = NewCollector("fast_latex_notes", prometheus.DefaultRegisterer)
	})
	return defaultCollector
}

// ObserveStore records one store operation, safe on a nil Collector
// ObserveStore 记录一次存储操作，Collector 为 nil 时忽略
func (c *Collector) ObserveStore(operation string, start time.Time, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.StoreOperations.WithLabelValues(operation, status).Inc()
	c.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
