package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP 通用指标 + 练习提交管线的业务指标
var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route template and status code",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route template",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	SubmissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_submissions_total",
			Help: "Total number of exercise submissions by language and verdict",
		},
		[]string{"language", "verdict"},
	)

	GraderFallbackCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "academy_grader_fallbacks_total",
			Help: "Number of times a grading stage fell back to a cheaper one",
		},
		[]string{"from", "to"},
	)

	ExecutorDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "academy_executor_duration_seconds",
			Help:    "Wall time of remote code execution including polling",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20},
		},
	)
)

// Init 注册所有指标，重复注册会 panic，只在启动时调用一次
func Init() {
	prometheus.MustRegister(
		RequestCounter,
		RequestDuration,
		SubmissionCounter,
		GraderFallbackCounter,
		ExecutorDuration,
	)
}

// MetricsMiddleware 按路由模板统计请求量与耗时
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// 未命中路由的请求归并到一个标签，防止恶意路径撑爆指标基数
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		method := c.Request.Method

		RequestCounter.WithLabelValues(method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// PrometheusHandler 把 promhttp 暴露成 gin handler
func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
