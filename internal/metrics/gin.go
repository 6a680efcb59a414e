package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RoleKey 是认证中间件写入调用者角色的 gin 上下文键。
const RoleKey = "metrics.role"

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP 请求耗时分布（秒）。",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP 请求总数，按路由、状态码与调用者角色区分。",
		},
		[]string{"method", "route", "code", "role"},
	)

	requestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "当前正在处理的 HTTP 请求数量。",
		},
	)
)

// GinMiddleware 采集请求耗时与计数。未登录请求的 role 标签为 guest。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		c.Next()

		// 未匹配路由统一归为一个标签，避免任意 URL 撑爆时间序列
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		role := c.GetString(RoleKey)
		if role == "" {
			role = "guest"
		}

		requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), role).Inc()
	}
}
