package pulsecheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jpalmerr/pulsecheck/dashboard"
	"github.com/jpalmerr/pulsecheck/internal/board"
	"github.com/jpalmerr/pulsecheck/internal/poller"
	"github.com/jpalmerr/pulsecheck/internal/server"
	"github.com/jpalmerr/pulsecheck/internal/tui"
)

const (
	// DefaultInterval is the initial polling interval in seconds.
	DefaultInterval = 30

	// DefaultTimeout bounds each probe.
	DefaultTimeout = poller.DefaultTimeout

	defaultPort = 8080
)

// ErrIntervalTooShort is returned by [Monitor.SetInterval] for values below
// 5 seconds. The interval is left unchanged.
var ErrIntervalTooShort = poller.ErrIntervalTooShort

// Monitor is the orchestrator of target polling and result presentation.
//
// A Monitor is created using [New] with functional options and run with one
// of two presenters: [Monitor.Watch] shows the results in the terminal,
// [Monitor.Serve] on a web dashboard. Either call blocks until the presenter
// is closed or its context is cancelled.
//
//	m, err := pulsecheck.New(pulsecheck.WithTargets(targets...))
//	if err != nil {
//	    slog.Error("failed to create monitor", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	m.Serve(ctx) // blocks until context cancelled
type Monitor struct {
	title           string
	targets         []string
	interval        *poller.Interval
	timeout         time.Duration
	port            int
	logger          *slog.Logger
	resultCallbacks []func(CheckResult)
	programOptions  []tea.ProgramOption
}

// New creates a new [Monitor] with the given options.
//
// Defaults:
//   - Interval: 30 seconds
//   - Timeout: 5 seconds
//   - Port: 8080
//
// An empty target list is allowed; the monitor then only waits between
// passes. Returns an error if a target is not an absolute http(s) URL, if a
// target appears twice, or if any option is invalid.
func New(opts ...Option) (*Monitor, error) {
	cfg := &monitorConfig{
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
		port:     defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(cfg.targets))
	for _, target := range cfg.targets {
		if err := validateTarget(target); err != nil {
			return nil, err
		}
		if seen[target] {
			return nil, fmt.Errorf("duplicate target: %q", target)
		}
		seen[target] = true
	}

	interval, err := poller.NewInterval(cfg.interval)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		title:           cfg.title,
		targets:         append([]string(nil), cfg.targets...),
		interval:        interval,
		timeout:         cfg.timeout,
		port:            cfg.port,
		logger:          logger,
		resultCallbacks: cfg.resultCallbacks,
		programOptions:  cfg.programOptions,
	}, nil
}

func validateTarget(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid target %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target %q: scheme must be http or https", target)
	}
	if u.Host == "" {
		return fmt.Errorf("target %q: host is required", target)
	}
	return nil
}

// Targets returns a copy of the configured targets, in polling order.
func (m *Monitor) Targets() []string {
	return append([]string(nil), m.targets...)
}

// Interval returns the current polling interval in seconds.
func (m *Monitor) Interval() int {
	return m.interval.Seconds()
}

// SetInterval changes the polling interval, effective from the next pass.
//
// Values below 5 are rejected with [ErrIntervalTooShort]; values above 300
// are clamped. Returns the interval in effect afterwards.
func (m *Monitor) SetInterval(seconds int) (int, error) {
	applied, err := m.interval.Set(seconds)
	if err != nil {
		return applied, err
	}
	m.logger.Info("interval updated", "interval_s", applied)
	return applied, nil
}

// Timeout returns the per-probe timeout.
func (m *Monitor) Timeout() time.Duration {
	return m.timeout
}

// Port returns the HTTP port used by [Monitor.Serve].
func (m *Monitor) Port() int {
	return m.port
}

// Watch polls the targets and shows the results in the terminal.
//
// Watch blocks until the operator closes the program or ctx is cancelled.
// Closing stops the poller; Watch returns once the in-flight probe, if any,
// has finished.
func (m *Monitor) Watch(ctx context.Context) error {
	m.logger.Info("pulsecheck watching", "target_count", len(m.targets), "interval_s", m.interval.Seconds())

	state := poller.NewRunState()
	b := board.New(m.targets)
	p := poller.New(m.targets, m.interval, m.timeout, m.logger)

	// hand-off to the terminal event loop
	queue := make(chan poller.CheckResult, max(1, len(m.targets)))

	p.Start(state)
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		defer close(queue)
		m.pump(p.Results(), func(r poller.CheckResult) {
			select {
			case queue <- r:
			case <-state.Done():
			}
		})
	}()

	presenter := tui.New(b, m.interval, state, queue, tui.Options{
		Title:          m.title,
		Logger:         m.logger,
		ProgramOptions: m.programOptions,
	})
	err := presenter.Run(ctx)

	state.Stop()
	p.Wait()
	<-pumpDone

	m.logger.Info("pulsecheck stopped")
	return err
}

// Serve polls the targets and serves the results on a web dashboard.
//
// Serve blocks until ctx is cancelled. The dashboard is available at
// http://localhost:<port>. Returns nil on graceful shutdown, or an error if
// the HTTP server fails to start.
func (m *Monitor) Serve(ctx context.Context) error {
	m.logger.Info("pulsecheck serving", "target_count", len(m.targets), "interval_s", m.interval.Seconds())

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	b := board.New(m.targets)
	httpServer := server.NewServer(b, m.interval, m.port, dashboard.Assets, m.title, m.logger)
	if err := httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	m.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", m.port))

	state := poller.NewRunState()
	p := poller.New(m.targets, m.interval, m.timeout, m.logger)
	p.Start(state)

	// single consumer: the board is only written from here
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		m.pump(p.Results(), func(r poller.CheckResult) {
			b.Apply(r)
		})
	}()

	<-ctx.Done()
	state.Stop()
	p.Wait()
	<-pumpDone

	m.logger.Info("pulsecheck stopped")
	return nil
}

// pump logs each result, runs the callbacks and hands it to the presenter,
// preserving order. It returns when results is closed.
func (m *Monitor) pump(results <-chan poller.CheckResult, deliver func(poller.CheckResult)) {
	for result := range results {
		m.logResult(result)

		if len(m.resultCallbacks) > 0 {
			public := toPublicResult(result)
			for _, cb := range m.resultCallbacks {
				invokeCallbackSafe(cb, public, m.logger)
			}
		}

		deliver(result)
	}
}

// logResult logs a check result (DEBUG level for success to reduce noise).
func (m *Monitor) logResult(r poller.CheckResult) {
	logAttrs := []any{
		"cycle_id", r.CycleID,
		"target", r.Target,
		"status_code", r.StatusCode,
		"elapsed_ms", r.Elapsed.Milliseconds(),
	}
	if r.Err != nil {
		m.logger.Warn("check failed", append(logAttrs, "error", r.Err.Error())...)
		return
	}
	m.logger.Debug("check completed", logAttrs...)
}

// invokeCallbackSafe calls a result callback with panic recovery.
// Panics are logged with a correlation id but do not propagate.
func invokeCallbackSafe(cb func(CheckResult), result CheckResult, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("result callback panicked",
				"panic", r,
				"target", result.Target,
				"correlation_id", uuid.New().String(),
			)
		}
	}()
	cb(result)
}

// IsIntervalTooShort reports whether err is a rejected interval change.
func IsIntervalTooShort(err error) bool {
	return errors.Is(err, ErrIntervalTooShort)
}
