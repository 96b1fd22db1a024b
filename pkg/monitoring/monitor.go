package monitoring

import (
	"strconv"
	"sync"
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
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AttemptsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_started_total",
			Help: "Quiz attempts created, by quiz type",
		},
		[]string{"quiz_type"},
	)

	AttemptsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_attempts_submitted_total",
			Help: "Graded quiz submissions, by quiz type and result",
		},
		[]string{"quiz_type", "result"},
	)

	AttemptScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_attempt_score",
			Help:    "Distribution of graded attempt scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"quiz_type"},
	)

	PendingAttempts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "quiz_attempts_pending",
			Help: "Attempts started but not yet submitted",
		},
	)

	SectionsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_sections_completed_total",
			Help: "Sections newly added to a user's completed set",
		},
	)

	ProgressUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_updates_total",
			Help: "Progress writes, by write path",
		},
		[]string{"path"},
	)
)

var collectors = []prometheus.Collector{
	RequestCounter,
	RequestDuration,
	AttemptsStarted,
	AttemptsSubmitted,
	AttemptScore,
	PendingAttempts,
	SectionsCompleted,
	ProgressUpdates,
}

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		for _, c := range collectors {
			prometheus.MustRegister(c)
		}
	})
}

// ResultLabel submitted 指标的 result 标签
func ResultLabel(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
