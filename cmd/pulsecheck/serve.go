package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/jpalmerr/pulsecheck"
	"github.com/jpalmerr/pulsecheck/config"
)

// shutdownTimeout bounds the wait for the in-flight probe after a signal.
const shutdownTimeout = 10 * time.Second

// newServeCmd starts the web dashboard.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		Long: `Start the pulsecheck web dashboard.

The server will:
  - Load configuration from the optional YAML file, flags and environment
  - Start polling all configured endpoints
  - Serve the dashboard UI on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  pulsecheck serve
  pulsecheck serve -c /etc/pulsecheck/pulsecheck.yaml --port 9090`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg.LoggingOptions())
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closer.Close()) }()

	logger.Info("starting server",
		"port", cfg.Port,
		"targets", len(cfg.Targets),
		"interval_seconds", cfg.Interval,
	)

	m, err := pulsecheck.New(config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	select {
	case err := <-done:
		return serveResult(logger, err)
	case <-ctx.Done():
	}

	// the monitor finishes the in-flight probe before returning
	select {
	case err := <-done:
		return serveResult(logger, err)
	case <-time.After(shutdownTimeout):
		logger.Warn("shutdown timed out", "timeout", shutdownTimeout.String())
		return nil
	}
}

func serveResult(logger *slog.Logger, err error) error {
	if err != nil {
		return fmt.Errorf("dashboard stopped: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
