// Package poller provides the background polling loop of pulsecheck.
//
// The main components are:
//
//   - [Client]: HTTP client wrapper that turns one GET into a [CheckResult]
//   - [Poller]: sequential polling loop with an interruptible wait
//   - [Interval]: the polling interval shared with presenters
//   - [RunState]: the cooperative shutdown token
//
// Users of the pulsecheck library should not need to interact with this
// package directly. Configuration is done through the main pulsecheck package.
package poller
