package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jpalmerr/pulsecheck/config"
	"github.com/jpalmerr/pulsecheck/internal/logging"
)

// envPrefix namespaces the environment overrides, e.g. PULSECHECK_INTERVAL.
const envPrefix = "PULSECHECK"

// addSettingsFlags registers the flags shared by every command that reads
// the configuration.
func addSettingsFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringP("config", "c", "", "path to config file (optional)")
	fs.StringSlice("target", nil, "URL to poll, repeatable (replaces configured targets)")
	fs.Int("interval", 0, fmt.Sprintf("seconds between polling passes (%d-%d)", config.MinInterval, config.MaxInterval))
	fs.Duration("timeout", 0, "per-probe timeout")
	fs.Int("port", 0, "dashboard HTTP port")
	fs.String("title", "", "title shown by the presenters")
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.String("log-format", "", "log format: text or json")
	fs.String("log-file", "", "write logs to a rotating file")
}

// loadSettings resolves the configuration of a command run.
//
// The file named by --config (or the built-in defaults) is the base; flags
// and PULSECHECK_* environment variables override individual values.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg := config.Default()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v.IsSet("target") {
		cfg.Targets = v.GetStringSlice("target")
	}
	if v.IsSet("interval") {
		cfg.Interval = v.GetInt("interval")
	}
	if v.IsSet("timeout") {
		cfg.Timeout = config.Duration(v.GetDuration("timeout"))
	}
	if v.IsSet("port") {
		cfg.Port = v.GetInt("port")
	}
	if v.IsSet("title") {
		cfg.Title = v.GetString("title")
	}
	if v.IsSet("log-level") {
		cfg.Log.Level = v.GetString("log-level")
	}
	if v.IsSet("log-format") {
		cfg.Log.Format = v.GetString("log-format")
	}
	if v.IsSet("log-file") {
		cfg.Log.File = v.GetString("log-file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg. Callers close the returned
// closer once the run is over.
func newLogger(opts logging.Options) (*slog.Logger, io.Closer, error) {
	logger, closer, err := logging.New(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output: %w", err)
	}
	return logger, closer, nil
}

// defaultWatchLogFile is used when the terminal presenter has no log file
// configured, since stderr belongs to the table.
func defaultWatchLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pulsecheck", "pulsecheck.log")
}
