/*
Package service orchestrates the payroll operations over a generic.Store.

PURPOSE:
  Each exported method is one user-level operation: read what it needs,
  run the pipeline packages (attendance, payroll, leave, payslip), write the
  result in one store call. Services hold no state between calls.

RULES:
  Rules are loaded fresh from the store at the start of every operation that
  needs them and passed down explicitly. A save is visible to the next call.

ERRORS:
  Errors wrap the generic sentinels with operation context; callers classify
  with generic.IsClientError / IsNotFound / IsPrecondition. Per-row problems
  inside a batch are counted and reported, never returned as errors.

SEE ALSO:
  - generic/store.go: Persistence contract
  - api/handlers.go: HTTP surface over these methods
  - cmd/payrollctl:  CLI surface over these methods
*/
package service

import (
	"time"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/leave"
	"github.com/warp/payroll-engine/metrics"
	"go.uber.org/zap"
)

type Service struct {
	store   generic.Store
	factory *factory.RulesFactory
	leaves  *leave.RequestService
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock fixes "now" for applied-on dates, payslip stamps and dashboards.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store generic.Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		factory: factory.NewRulesFactory(),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.leaves = leave.NewRequestService(store, store, s.logger.Named("leave"))
	s.leaves.Today = s.Today
	return s
}

// Today is the service clock's current date.
func (s *Service) Today() generic.Date {
	return generic.DateOf(s.now())
}

// allTime covers every date a store can hold.
var allTime = generic.Period{
	Start: generic.NewDate(1, time.January, 1),
	End:   generic.NewDate(9999, time.December, 31),
}
