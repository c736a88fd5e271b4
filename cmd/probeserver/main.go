// Standalone probe server for trying pulsecheck locally.
//
// Usage:
//
//	go run ./cmd/probeserver
//
// Then in another terminal:
//
//	go run ./cmd/pulsecheck watch
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/pulsecheck/internal/logging"
	"github.com/jpalmerr/pulsecheck/internal/probeserver"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probeserver",
		Short: "Serve a single health path for pulsecheck to poll",
		Long: `probeserver answers GET on one path with 200 "OK" and every other path
with an empty 404. It runs until interrupted (Ctrl+C) or receives SIGTERM.`,
		SilenceUsage: true,
		RunE:         run,
	}
	cmd.Flags().String("addr", probeserver.DefaultAddr, "listen address")
	cmd.Flags().String("path", probeserver.DefaultPath, "path answered with 200 OK")
	cmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	path, _ := cmd.Flags().GetString("path")
	level, _ := cmd.Flags().GetString("log-level")

	logger, _, err := logging.New(logging.Options{Level: level})
	if err != nil {
		return err
	}

	srv, err := probeserver.New(addr, path)
	if err != nil {
		return fmt.Errorf("invalid probe server settings: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	logger.Info("probe server listening", "addr", srv.Addr(), "path", path)

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("probe server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown failed", "error", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
