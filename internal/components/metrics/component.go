package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grand-thief-cash/focusboard/internal/config"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
)

// Component owns the Prometheus registry and the domain collectors.
type Component struct {
	*core.BaseComponent
	cfg      *config.MetricsConfig
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	SweepRuns    *prometheus.CounterVec
	SweepRows    *prometheus.CounterVec
	ReorderOps   prometheus.Counter
}

func NewComponent(cfg *config.MetricsConfig) *Component {
	c := &Component{
		BaseComponent: core.NewBaseComponent(consts.COMP_METRICS, consts.COMP_LOGGING),
		cfg:           cfg,
		registry:      prometheus.NewRegistry(),
	}
	c.HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "focusboard_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "path", "code"})
	c.HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "focusboard_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
	c.SweepRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "focusboard_sweep_runs_total",
		Help: "Daily focus-reset sweeps by scope (user/global) and outcome.",
	}, []string{"scope", "outcome"})
	c.SweepRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "focusboard_sweep_rows_total",
		Help: "Tasks un-focused by sweeps, by scope.",
	}, []string{"scope"})
	c.ReorderOps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "focusboard_reorder_ops_total",
		Help: "Completed reorder operations.",
	})
	return c
}

func (c *Component) Start(ctx context.Context) error {
	if err := c.BaseComponent.Start(ctx); err != nil {
		return err
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.SweepRuns,
		c.SweepRows,
		c.ReorderOps,
	)
	return nil
}

// Handler serves the scrape endpoint.
func (c *Component) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Path returns the configured scrape path.
func (c *Component) Path() string { return c.cfg.Path }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency against the chi route
// pattern resolved by the router.
func (c *Component) Middleware(routePattern func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			path := routePattern(r)
			c.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
			c.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
