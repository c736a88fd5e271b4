// Package pulsecheck polls a fixed list of HTTP endpoints and shows, per
// endpoint, the last status code, response time and error.
//
// Targets are probed one after another with a plain GET bounded by a
// timeout. After each full pass the monitor waits for the polling interval,
// which the operator can change at runtime, in one-second steps so that a
// shutdown request is honoured quickly.
//
// # Quick Start
//
//	m, _ := pulsecheck.New(
//	    pulsecheck.WithTargets("http://localhost:8000/servidor", "https://www.google.com/"),
//	)
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	m.Watch(ctx) // terminal table; or m.Serve(ctx) for the web dashboard
//
// # Configuration
//
// The monitor is configured with functional options:
//
//	m, err := pulsecheck.New(
//	    pulsecheck.WithTargets(targets...),
//	    pulsecheck.WithInterval(60),
//	    pulsecheck.WithTimeout(3 * time.Second),
//	    pulsecheck.WithPort(9090),
//	)
//
// # Classification
//
// Each result is classified for display:
//
//   - [ClassOK]: the target answered 200
//   - [ClassWarn]: the target answered with any other status
//   - [ClassError]: no HTTP response (refused, DNS failure, timeout, ...)
//
// # Architecture
//
// pulsecheck consists of several internal packages (under internal/):
//
//   - internal/poller: the sequential polling loop and the probe client
//   - internal/board: one display row per target, with pub/sub for updates
//   - internal/tui: the terminal presenter
//   - internal/server: the web presenter with REST API and Server-Sent Events
//   - internal/probeserver: a minimal endpoint to point the poller at
//   - dashboard: embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package pulsecheck
