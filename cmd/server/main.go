/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load settings (.env, config file, environment)
  2. Build the zap logger
  3. Open the store (csv, sqlite or memory)
  4. Build metrics, service, handler and router
  5. Start the missing-punch alert scheduler
  6. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the alert scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (SHUTDOWN_TIMEOUT)
  4. Close the store
  5. Exit

ENVIRONMENT:
  PORT, ENV, STORE_DRIVER, DATA_DIR, SQLITE_PATH, LOG_LEVEL, LOG_FORMAT,
  ALLOWED_ORIGINS, RATE_LIMIT_PER_MINUTE, READ_TIMEOUT, WRITE_TIMEOUT,
  SHUTDOWN_TIMEOUT, ALERTS_ENABLED, ALERT_CHECK_INTERVAL

EXAMPLES:
  # Run against CSV files in ./data
  ./server

  # Run against SQLite
  STORE_DRIVER=sqlite SQLITE_PATH=./data/payroll.db ./server

SEE ALSO:
  - config/config.go: Settings and defaults
  - api/server.go: Router configuration
  - store/store.go: Store selection
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/logging"
	"github.com/warp/payroll-engine/metrics"
	"github.com/warp/payroll-engine/service"
	"github.com/warp/payroll-engine/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// Initialize store
	st, err := store.Open(cfg.Store.Driver, cfg.Store.DataDir, cfg.Store.SQLitePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	m := metrics.New()
	svc := service.New(st, service.WithLogger(logger), service.WithMetrics(m))

	// Fail fast on a stored rules document that no longer validates.
	if _, err := svc.Rules(context.Background()); err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	handler := api.NewHandler(svc, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Metrics:           m,
	})

	scheduler := api.NewAlertScheduler(svc, m, logger)
	scheduler.Enabled = cfg.Alerts.Enabled
	scheduler.CheckInterval = cfg.Alerts.CheckInterval
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  2 * cfg.HTTP.ReadTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.Store.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		scheduler.Stop()
		return err
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
