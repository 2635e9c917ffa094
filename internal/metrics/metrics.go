package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhyrak/smart-timetable/internal/scheduler"
	"github.com/rhyrak/smart-timetable/pkg/model"
)

// Metrics holds the Prometheus collectors for generation runs, the run
// cache and HTTP traffic.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	runs           *prometheus.CounterVec
	lectures       prometheus.Counter
	unplaced       prometheus.Counter
	unassignable   prometheus.Counter
	attempts       prometheus.Counter
	runDuration    prometheus.Histogram
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timetable_runs_total",
			Help: "Generation runs by outcome",
		}, []string{"status"}),
		lectures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetable_lectures_placed_total",
			Help: "Lectures placed across all runs",
		}),
		unplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetable_hours_unplaced_total",
			Help: "Hour-units dropped after exhausting their attempts",
		}),
		unassignable: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetable_subjects_unassignable_total",
			Help: "Batch subjects no faculty could teach",
		}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetable_placement_attempts_total",
			Help: "Placement attempts drawn across all runs",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "timetable_run_duration_seconds",
			Help:    "Time spent in the placement engine",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetable_cache_hits_total",
			Help: "Run cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetable_cache_misses_total",
			Help: "Run cache misses",
		}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	registry.MustRegister(m.runs, m.lectures, m.unplaced, m.unassignable, m.attempts, m.runDuration,
		m.cacheHits, m.cacheMisses, m.requestTotal, m.requestLatency)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveRun records the outcome of one generation.
func (m *Metrics) ObserveRun(status model.RunStatus, result *scheduler.Result) {
	if m == nil || result == nil {
		return
	}
	m.runs.WithLabelValues(string(status)).Inc()
	m.lectures.Add(float64(len(result.Lectures)))
	m.unplaced.Add(float64(len(result.Diagnostics.Unplaced)))
	m.unassignable.Add(float64(len(result.Diagnostics.Unassignable)))
	m.attempts.Add(float64(result.Attempts))
	m.runDuration.Observe(result.Elapsed.Seconds())
}

func (m *Metrics) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	m.requestLatency.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
}

// Middleware captures request metrics for every route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
