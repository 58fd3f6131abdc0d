package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	"expensetracker/internal/console"
	apphttp "expensetracker/internal/http"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
)

const usage = `Usage: expenses [command] [args...]

Commands:
  shell                     interactive session (default)
  serve                     run the JSON API on $PORT
  mirror                    copy every save to the Google Sheets tab
  add <amount> <category> <YYYY-MM-DD> <description...>
  list
  total [category|All] [YYYY-MM-DD]
  summary [YYYY-MM-DD]
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := "shell"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		fmt.Fprint(stdout, usage)
		return 0
	}

	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	// stdout is the user interface everywhere except serve
	logOut := stderr
	if cmd == "serve" || cmd == "mirror" {
		logOut = stdout
	}
	logger := cli.SetupLogger(cfg.LogLevel, logOut)

	if cmd == "mirror" {
		return mirror(cfg, logger)
	}

	svc, err := cli.BuildService(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize expense service", applog.FieldError, err)
		return 1
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Cleanup failed", applog.FieldError, err)
		}
	}()

	switch cmd {
	case "shell":
		session := console.NewSession(svc, stdout, logger)
		if err := session.Run(context.Background(), stdin); err != nil {
			logger.Error("Console read failed", applog.FieldError, err)
			return 1
		}
		return 0
	case "serve":
		return serve(cfg, svc, logger)
	default:
		session := console.NewSession(svc, stdout, logger)
		if err := session.RunOnce(context.Background(), append([]string{cmd}, args...)); err != nil {
			fmt.Fprintln(stderr, console.Describe(err))
			if errors.Is(err, console.ErrUsage) {
				fmt.Fprint(stderr, usage)
				return 2
			}
			return 1
		}
		return 0
	}
}

func serve(cfg *config.Config, svc *services.ExpenseService, logger *applog.Logger) int {
	if n, err := svc.Load(context.Background()); err != nil {
		logger.Warn("Starting with an empty session", applog.FieldError, err)
	} else {
		logger.Info("Session loaded", applog.FieldCount, n)
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, logger)
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting expenses API", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		return 1
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
	return 0
}

func mirror(cfg *config.Config, logger *applog.Logger) int {
	w, client, closeAll, err := cli.BuildMirror(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize mirror", applog.FieldError, err)
		return 1
	}
	defer closeAll()

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	if err := w.StartupSync(ctx); err != nil {
		logger.Warn("Startup sync failed, waiting for notifications", applog.FieldError, err)
	}

	logger.Info("Mirroring saves to Google Sheets", "queue", cfg.AMQPQueue, applog.FieldBackend, cfg.DataBackend)
	if err := client.ConsumeSaved(ctx, w.HandleSavedMessage); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", applog.FieldError, err)
		return 1
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Mirror stopped gracefully")
	return 0
}
