package pulsecheck

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jpalmerr/pulsecheck/internal/poller"
)

// monitorConfig holds mutable state during Monitor construction.
type monitorConfig struct {
	title           string
	targets         []string
	interval        int
	timeout         time.Duration
	port            int
	logger          *slog.Logger
	resultCallbacks []func(CheckResult)
	programOptions  []tea.ProgramOption
}

// Option is a function that configures a [Monitor] instance during construction.
//
// Options return an error if validation fails.
//
// Built-in options: [WithTargets], [WithInterval], [WithTimeout], [WithPort],
// [WithTitle], [WithLogger], [WithResultCallback].
type Option func(*monitorConfig) error

// WithTargets adds URLs to the polling list, in order.
//
// Can be called multiple times; targets are probed in the order they were
// added. Each target must be an absolute http or https URL and appear once.
//
// Example:
//
//	m, err := pulsecheck.New(
//	    pulsecheck.WithTargets("http://localhost:8000/servidor", "https://www.google.com/"),
//	)
func WithTargets(targets ...string) Option {
	return func(cfg *monitorConfig) error {
		cfg.targets = append(cfg.targets, targets...)
		return nil
	}
}

// WithInterval sets the initial number of seconds between polling passes.
//
// The interval can be changed at runtime with [Monitor.SetInterval] or from
// either presenter. Defaults to 30 seconds.
//
// Returns an error if seconds is outside 5..300.
func WithInterval(seconds int) Option {
	return func(cfg *monitorConfig) error {
		if seconds < poller.MinInterval || seconds > poller.MaxInterval {
			return fmt.Errorf("interval must be between %d and %d seconds, got %d",
				poller.MinInterval, poller.MaxInterval, seconds)
		}
		cfg.interval = seconds
		return nil
	}
}

// WithTimeout sets the timeout of each probe. Defaults to 5 seconds.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *monitorConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithPort sets the HTTP port used by [Monitor.Serve].
//
// The dashboard and API will be available at http://localhost:<port>.
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *monitorConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Monitor.
//
// If not specified, [slog.Default] is used. [Monitor.Watch] owns the terminal,
// so a logger writing to a file is recommended there.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *monitorConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithResultCallback registers a function to be called with every check result.
//
// Multiple callbacks may be registered; they execute in registration order,
// before the result reaches the presenter.
//
// Callbacks are invoked synchronously from a single goroutine and must not
// block: a slow callback delays every following result. Panics within
// callbacks are recovered and logged with a correlation id.
//
// Example:
//
//	m, err := pulsecheck.New(
//	    pulsecheck.WithTargets(targets...),
//	    pulsecheck.WithResultCallback(func(r pulsecheck.CheckResult) {
//	        if r.Class() == pulsecheck.ClassError {
//	            log.Printf("%s is unreachable: %v", r.Target, r.Err)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithResultCallback(cb func(CheckResult)) Option {
	return func(cfg *monitorConfig) error {
		if cb == nil {
			return nil
		}
		cfg.resultCallbacks = append(cfg.resultCallbacks, cb)
		return nil
	}
}

// WithTitle sets the title shown by both presenters.
//
// If not specified, defaults to "pulsecheck".
func WithTitle(title string) Option {
	return func(cfg *monitorConfig) error {
		cfg.title = title
		return nil
	}
}

// WithProgramOptions passes options to the terminal program run by
// [Monitor.Watch], e.g. tea.WithAltScreen().
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(cfg *monitorConfig) error {
		cfg.programOptions = append(cfg.programOptions, opts...)
		return nil
	}
}
