// Package cli provides common CLI initialization utilities shared by the
// shell, serve and mirror commands of cmd/expenses.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"expensetracker/internal/amqp"
	"expensetracker/internal/backend"
	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/store"
	"expensetracker/internal/worker"
)

// SetupLogger initializes structured logging at the given level writing to w.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level string, w io.Writer) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(level),
		Component: applog.ComponentApp,
		Output:    w,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildService wires the configured repository and the optional AMQP notifier
// into a fresh ExpenseService. Callers own the returned service and must Close it.
func BuildService(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*services.ExpenseService, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateRepository(ctx, backendCfg)
	if err != nil {
		return nil, err
	}

	opts := []services.Option{
		services.WithBackendName(backendCfg.Type.String()),
		services.WithTotalsCacheSize(cfg.TotalsCacheSize),
		services.WithLogger(logger),
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Notifications are optional; the session works without them.
			logger.Warn("AMQP unavailable, save notifications disabled", "error", err)
		} else {
			opts = append(opts, services.WithNotifier(client))
		}
	}

	return services.NewExpenseService(store.New(), res.Repository, opts...), nil
}

// BuildMirror wires a MirrorWorker copying the configured backend to the
// Google Sheets tab. It needs AMQP and a non-sheets primary backend.
func BuildMirror(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*worker.MirrorWorker, *amqp.Client, func(), error) {
	if cfg.AMQPURL == "" {
		return nil, nil, nil, errors.New("mirror requires AMQP_URL")
	}
	if cfg.DataBackend == config.BackendSheets {
		return nil, nil, nil, errors.New("mirror source and target are both Google Sheets")
	}

	sourceCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	targetCfg := sourceCfg
	targetCfg.Type = backend.SheetsBackend

	factory := backend.NewFactory(logger)
	source, err := factory.CreateRepository(ctx, sourceCfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("mirror source: %w", err)
	}
	cleanup := func() {
		if source.Cleanup != nil {
			if err := source.Cleanup(); err != nil {
				logger.Warn("Source cleanup failed", applog.FieldError, err)
			}
		}
	}
	target, err := factory.CreateRepository(ctx, targetCfg)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("mirror target: %w", err)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("connect AMQP: %w", err)
	}
	closeAll := func() {
		if err := client.Close(); err != nil {
			logger.Warn("AMQP close failed", applog.FieldError, err)
		}
		cleanup()
	}
	return worker.NewMirrorWorker(source.Repository, target.Repository), client, closeAll, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
