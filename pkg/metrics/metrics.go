// Package metrics 基于Prometheus的指标收集
//
// 指标分三类：
//   - HTTP层：请求总数、耗时分布、处理中的请求数（由中间件记录）
//   - 业务层：书评创建数、账号注册数
//   - 外部依赖：图书目录调用次数/耗时、熔断器状态、事件发布数
//
// 命名规范：Counter以`_total`结尾，Histogram以单位结尾（`_seconds`）。
// 标签只使用有限取值（method、status、op、result），不要用user_id、book_id作标签。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.IncCounter(metrics.ReviewsCreatedTotal)
//	metrics.ObserveHistogramVec(metrics.CatalogRequestDuration,
//	    map[string]string{"op": "search"}, time.Since(start).Seconds())
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initOnce 防止重复注册（promauto重复注册会panic）
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/reviews/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// ReviewsCreatedTotal 书评创建总数
	ReviewsCreatedTotal prometheus.Counter

	// ReviewsDeletedTotal 书评删除总数（管理员操作）
	ReviewsDeletedTotal prometheus.Counter

	// AccountsRegisteredTotal 账号注册总数
	AccountsRegisteredTotal prometheus.Counter

	// 图书目录（外部服务）指标

	// CatalogRequestsTotal 目录调用总数
	// 标签：op（search/get）、result（success/failure/rejected/cache_hit）
	CatalogRequestsTotal *prometheus.CounterVec

	// CatalogRequestDuration 目录调用耗时（不含缓存命中）
	CatalogRequestDuration *prometheus.HistogramVec

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// MessagesPublishedTotal 领域事件发布总数
	// 标签：routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry
// 可重复调用，只有第一次生效
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	ReviewsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_created_total",
			Help: "书评创建总数",
		},
	)

	ReviewsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reviews_deleted_total",
			Help: "书评删除总数",
		},
	)

	AccountsRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "accounts_registered_total",
			Help: "账号注册总数",
		},
	)

	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "图书目录调用总数",
		},
		[]string{"op", "result"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "catalog_request_duration_seconds",
			Help: "图书目录调用耗时（秒）",
			// 外部HTTP调用，比本地请求慢一个数量级
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "领域事件发布总数",
		},
		[]string{"routing_key", "result"},
	)
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
