package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 沙箱执行指标：outcome ∈ ok / error / timeout
	SandboxRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_runs_total",
			Help: "Total number of sandboxed code executions",
		},
		[]string{"outcome"},
	)

	SandboxRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sandbox_run_duration_seconds",
			Help:    "Wall-clock duration of sandboxed code executions",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SandboxRuns)
	prometheus.MustRegister(SandboxRunDuration)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// ObserveSandboxRun 记录一次沙箱执行
func ObserveSandboxRun(outcome string, duration time.Duration) {
	SandboxRuns.WithLabelValues(outcome).Inc()
	SandboxRunDuration.Observe(duration.Seconds())
}
