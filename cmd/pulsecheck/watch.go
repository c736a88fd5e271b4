package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/jpalmerr/pulsecheck"
	"github.com/jpalmerr/pulsecheck/config"
)

// newWatchCmd shows the results in a terminal table.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show endpoint status in the terminal",
		Long: `Poll the configured endpoints and show their latest status in a
terminal table.

Type a number and press Enter to change the interval, or use the arrow keys.
Press q, Esc or Ctrl+C to quit.

Logs go to the file set by log.file or --log-file. Without one they go to
pulsecheck/pulsecheck.log under the user cache directory.

Example:
  pulsecheck watch
  pulsecheck watch -c pulsecheck.yaml --interval 10`,
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logOpts := cfg.LoggingOptions()
	if logOpts.File == "" {
		logOpts.File = defaultWatchLogFile()
	}
	logger, closer, err := newLogger(logOpts)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closer.Close()) }()

	logger.Info("starting terminal presenter",
		"targets", len(cfg.Targets),
		"interval_seconds", cfg.Interval,
		"timeout", cfg.Timeout.Duration().String(),
	)

	m, err := pulsecheck.New(config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create monitor: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Watch(ctx); err != nil {
		return err
	}
	logger.Info("terminal presenter closed")
	return nil
}
