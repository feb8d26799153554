// Package metrics Prometheus 指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 服务指标集合，使用独立 registry 方便测试
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	FollowTogglesTotal  *prometheus.CounterVec
	InvalidationLatency prometheus.Histogram
	InvalidationQueue   prometheus.GaugeFunc
}

// New 创建指标实例；queueLen 为失效队列长度采样函数，可为 nil
func New(namespace string, queueLen func() int) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		FollowTogglesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "follow_toggles_total",
				Help:      "Follow toggles by resulting state",
			},
			[]string{"result"},
		),
		InvalidationLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stats_invalidation_latency_seconds",
				Help:      "Delay between a toggle and its stats cache invalidation",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
		),
	}
	if queueLen == nil {
		queueLen = func() int { return 0 }
	}
	m.InvalidationQueue = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stats_invalidation_queue_length",
			Help:      "Pending stats invalidation jobs",
		},
		func() float64 { return float64(queueLen()) },
	)

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.FollowTogglesTotal,
		m.InvalidationLatency,
		m.InvalidationQueue,
	)
	return m
}

// ObserveRequest 记录一次 HTTP 请求
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveToggle 记录关注切换结果
func (m *Metrics) ObserveToggle(following bool) {
	result := "unfollowed"
	if following {
		result = "followed"
	}
	m.FollowTogglesTotal.WithLabelValues(result).Inc()
}

// ObserveInvalidation 记录缓存失效耗时
func (m *Metrics) ObserveInvalidation(d time.Duration) {
	m.InvalidationLatency.Observe(d.Seconds())
}

// Registry 暴露给测试
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
