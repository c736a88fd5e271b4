package config

import (
	"log/slog"

	"github.com/jpalmerr/pulsecheck"
	"github.com/jpalmerr/pulsecheck/internal/logging"
)

// BuildOptions converts parsed configuration into monitor options.
//
// The logger is passed separately because its output (stderr or a file) is
// owned by the caller; see [Config.LoggingOptions].
func BuildOptions(cfg *Config, logger *slog.Logger) []pulsecheck.Option {
	opts := []pulsecheck.Option{
		pulsecheck.WithTargets(cfg.Targets...),
		pulsecheck.WithInterval(cfg.Interval),
		pulsecheck.WithTimeout(cfg.Timeout.Duration()),
		pulsecheck.WithPort(cfg.Port),
		pulsecheck.WithTitle(cfg.Title),
	}
	if logger != nil {
		opts = append(opts, pulsecheck.WithLogger(logger))
	}
	return opts
}

// LoggingOptions returns the logger settings of the log section.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		File:   c.Log.File,
	}
}
