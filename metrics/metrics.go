// Package metrics owns the Prometheus registry: HTTP request metrics plus
// counters for the payroll pipeline. A nil *Metrics is valid and records
// nothing, so services and tests can run without one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	punchRows       *prometheus.CounterVec
	sandwichApplied prometheus.Counter
	payrollRuns     prometheus.Counter
	payrollNet      prometheus.Gauge
	payrollDuration prometheus.Histogram
	leaveDecisions  *prometheus.CounterVec
	importedRows    *prometheus.CounterVec
	dashboard       *prometheus.GaugeVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		punchRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_punch_rows_total",
			Help: "Uploaded punch rows by outcome (processed, skipped)",
		}, []string{"outcome"}),
		sandwichApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payroll_sandwich_reclassified_total",
			Help: "Week-off days reclassified as sandwich absences",
		}),
		payrollRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payroll_runs_total",
			Help: "Completed payroll runs",
		}),
		payrollNet: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "payroll_last_run_net_pay",
			Help: "Total net pay of the most recent payroll run",
		}),
		payrollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "payroll_run_duration_seconds",
			Help:    "Wall time of payroll runs",
			Buckets: prometheus.DefBuckets,
		}),
		leaveDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_leave_transitions_total",
			Help: "Leave applications by resulting status",
		}, []string{"status"}),
		importedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payroll_imported_rows_total",
			Help: "Rows accepted from bulk uploads by table",
		}, []string{"table"}),
		dashboard: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "payroll_dashboard_employees",
			Help: "Latest dashboard counts (active, present, missing_today, missing_alerts)",
		}, []string{"count"}),
	}

	registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.punchRows, m.sandwichApplied,
		m.payrollRuns, m.payrollNet, m.payrollDuration,
		m.leaveDecisions, m.importedRows, m.dashboard,
		collectors.NewGoCollector(),
	)
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

// Middleware records duration and count per chi route pattern, so path
// parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := strconv.Itoa(ww.Status())
		m.requestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

// =============================================================================
// DOMAIN COUNTERS
// =============================================================================

func (m *Metrics) PunchRows(processed, skipped int) {
	if m == nil {
		return
	}
	m.punchRows.WithLabelValues("processed").Add(float64(processed))
	m.punchRows.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *Metrics) SandwichReclassified(n int) {
	if m == nil {
		return
	}
	m.sandwichApplied.Add(float64(n))
}

func (m *Metrics) PayrollRun(netPay float64, took time.Duration) {
	if m == nil {
		return
	}
	m.payrollRuns.Inc()
	m.payrollNet.Set(netPay)
	m.payrollDuration.Observe(took.Seconds())
}

func (m *Metrics) LeaveTransition(status string) {
	if m == nil {
		return
	}
	m.leaveDecisions.WithLabelValues(status).Inc()
}

func (m *Metrics) ImportedRows(table string, n int) {
	if m == nil {
		return
	}
	m.importedRows.WithLabelValues(table).Add(float64(n))
}

// Dashboard publishes the latest dashboard counts.
func (m *Metrics) Dashboard(active, present, missingToday, alerts int) {
	if m == nil {
		return
	}
	m.dashboard.WithLabelValues("active").Set(float64(active))
	m.dashboard.WithLabelValues("present").Set(float64(present))
	m.dashboard.WithLabelValues("missing_today").Set(float64(missingToday))
	m.dashboard.WithLabelValues("missing_alerts").Set(float64(alerts))
}
