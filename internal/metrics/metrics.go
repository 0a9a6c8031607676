package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valtech",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "valtech",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	// ReferralRedemptions counts redemption attempts by outcome.
	ReferralRedemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valtech",
			Name:      "referral_redemptions_total",
			Help:      "Referral redemption attempts by result.",
		},
		[]string{"result"},
	)

	// TokenRefreshes counts per-record auth token refresh outcomes.
	TokenRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valtech",
			Name:      "token_refresh_total",
			Help:      "Auth token refresh attempts by result.",
		},
		[]string{"result"},
	)

	// ReferralsSwept counts referral tokens removed by the expiry sweeper.
	ReferralsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "valtech",
			Name:      "referral_swept_total",
			Help:      "Expired referral tokens deleted.",
		},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "valtech",
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Background job cycles by task and outcome.",
		},
		[]string{"task", "success"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "valtech",
			Subsystem: "jobs",
			Name:      "run_duration_seconds",
			Help:      "Duration of background job cycles.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"task"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		ReferralRedemptions,
		TokenRefreshes,
		ReferralsSwept,
		jobRuns,
		jobDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordJobRun records one background cycle.
func RecordJobRun(task string, success bool, d time.Duration) {
	jobRuns.WithLabelValues(task, strconv.FormatBool(success)).Inc()
	jobDuration.WithLabelValues(task).Observe(d.Seconds())
}

// InstrumentHandler records request counts and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
