/*
scheduler.go - Periodic missing-punch check

PURPOSE:
  Periodically builds the dashboard for the current day and publishes its
  counts as Prometheus gauges, logging a warning whenever the last seven
  days hold missing punches that nobody has fixed yet.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Runs once immediately on start
  - Reads only; never modifies attendance

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewAlertScheduler(svc, metrics, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - service/dashboard.go: The counts published here
  - metrics/metrics.go: Dashboard gauges
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/payroll-engine/metrics"
	"github.com/warp/payroll-engine/service"
	"go.uber.org/zap"
)

// AlertScheduler refreshes the dashboard gauges on a ticker.
type AlertScheduler struct {
	Service       *service.Service
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewAlertScheduler(svc *service.Service, m *metrics.Metrics, logger *zap.Logger) *AlertScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertScheduler{
		Service:       svc,
		Metrics:       m,
		Logger:        logger,
		CheckInterval: time.Hour,
		Enabled:       true,
	}
}

// Start begins the scheduler. Calling it twice is a no-op.
func (as *AlertScheduler) Start() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if !as.Enabled {
		as.Logger.Info("alert scheduler disabled")
		return
	}
	if as.ticker != nil {
		return
	}

	as.ticker = time.NewTicker(as.CheckInterval)
	as.stop = make(chan struct{})
	as.wg.Add(1)

	go as.run()

	as.Logger.Info("alert scheduler started", zap.Duration("interval", as.CheckInterval))
}

// Stop stops the scheduler and waits for an in-flight check.
func (as *AlertScheduler) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.ticker != nil {
		as.ticker.Stop()
		close(as.stop)
		as.wg.Wait()
		as.ticker = nil
		as.Logger.Info("alert scheduler stopped")
	}
}

func (as *AlertScheduler) run() {
	defer as.wg.Done()

	as.RunNow(context.Background())

	for {
		select {
		case <-as.ticker.C:
			as.RunNow(context.Background())
		case <-as.stop:
			return
		}
	}
}

// RunNow performs one check.
func (as *AlertScheduler) RunNow(ctx context.Context) {
	today := as.Service.Today()
	d, err := as.Service.Dashboard(ctx, today)
	if err != nil {
		as.Logger.Error("dashboard check failed", zap.Error(err))
		return
	}

	as.Metrics.Dashboard(d.ActiveEmployees, d.PresentToday, d.MissingToday, len(d.Alerts))
	if len(d.Alerts) > 0 {
		as.Logger.Warn("unresolved missing punches",
			zap.String("date", today.String()),
			zap.Int("alerts", len(d.Alerts)),
			zap.Int("missing_today", d.MissingToday),
		)
	}
}
