package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests.",
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RequestsTotal)
}

// Metrics 按路由模板记录耗时与请求数，避免把路径参数当作标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
