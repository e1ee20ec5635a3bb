/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from X-Forwarded-For / X-Real-IP
  3. Logger:     zap access log (logging.Middleware)
  4. Metrics:    Prometheus duration and count per route pattern
  5. Recoverer:  Panic recovery (500 instead of crash)
  6. CORS:       Cross-origin requests for the frontend
  7. RateLimit:  Per-IP request budget on /api (httprate)

ROUTE GROUPS:
  /healthz              Liveness
  /metrics              Prometheus scrape endpoint
  /api/employees/*      Employee management
  /api/attendance/*     Punch processing and attendance queries
  /api/payroll/*        Runs, reports, payslips
  /api/leaves/*         Applications and balances
  /api/settings/*       Rules document
  /api/dashboard        Daily counts

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/warp/payroll-engine/logging"
	"github.com/warp/payroll-engine/metrics"
)

// RouterConfig carries the cross-cutting settings of the router. Zero
// values disable rate limiting and allow every origin.
type RouterConfig struct {
	AllowedOrigins    []string
	RequestsPerMinute int
	Metrics           *metrics.Metrics
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(h.Logger))
	r.Use(cfg.Metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", cfg.Metrics.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		if cfg.RequestsPerMinute > 0 {
			r.Use(httprate.LimitByIP(cfg.RequestsPerMinute, time.Minute))
		}

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.SaveEmployee)
			r.Post("/import", h.ImportEmployees)
			r.Get("/export", h.ExportEmployees)
			r.Get("/{ecode}", h.GetEmployee)
		})

		// Attendance routes
		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.ListAttendance)
			r.Post("/", h.RecordAttendance)
			r.Post("/punches", h.ProcessPunches)
			r.Post("/fix", h.FixPunch)
			r.Get("/missing", h.MissingPunches)
			r.Get("/summary", h.AttendanceSummary)
			r.Get("/export", h.ExportAttendance)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/run", h.RunPayroll)
			r.Get("/periods", h.ListPayrollPeriods)
			r.Route("/{year}/{month}", func(r chi.Router) {
				r.Get("/", h.GetPayroll)
				r.Get("/report", h.PayrollReport)
				r.Get("/export", h.ExportPayroll)
				r.Get("/payslips/{ecode}", h.GetPayslip)
				r.Get("/payslips/{ecode}/pdf", h.GetPayslipPDF)
			})
		})

		// Leave routes
		r.Route("/leaves", func(r chi.Router) {
			r.Get("/", h.ListLeaves)
			r.Post("/", h.ApplyLeave)
			r.Get("/balances", h.LeaveBalanceReport)
			r.Get("/balances/{ecode}", h.LeaveBalance)
			r.Get("/{id}", h.GetLeave)
			r.Post("/{id}/approve", h.ApproveLeave)
			r.Post("/{id}/reject", h.RejectLeave)
		})

		// Settings routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/rules", h.GetRules)
			r.Put("/rules", h.SaveRules)
			r.Post("/rules/reset", h.ResetRules)
		})

		r.Get("/dashboard", h.Dashboard)
	})

	return r
}
