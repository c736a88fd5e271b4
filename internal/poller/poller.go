package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the per-probe timeout used when none is configured.
const DefaultTimeout = 5 * time.Second

// sleepStep is the granularity of the wait between cycles. Shutdown is
// observed at least once per step.
const sleepStep = time.Second

// Poller repeatedly probes a fixed, ordered list of targets.
//
// Each cycle probes every target sequentially in configuration order and
// hands each [CheckResult] to the consumer through the channel returned by
// [Poller.Results]. After a full pass the poller waits for the current
// [Interval] in one-second steps, re-checking its [RunState] before every
// step, so a shutdown request interrupts the wait within one step.
//
// The interval is read once at the start of each cycle: a change made while a
// cycle or a wait is in progress takes effect on the next cycle.
type Poller struct {
	targets  []string
	interval *Interval
	timeout  time.Duration
	client   *Client
	results  chan CheckResult
	logger   *slog.Logger
	step     time.Duration

	mu        sync.Mutex
	started   bool
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a [Poller] for targets.
//
// A non-positive timeout is replaced by [DefaultTimeout]. The targets slice is
// copied; the poller's list never changes afterwards. The results channel is
// bounded to one full cycle of results.
func New(targets []string, interval *Interval, timeout time.Duration, logger *slog.Logger) *Poller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		targets:  append([]string(nil), targets...),
		interval: interval,
		timeout:  timeout,
		client:   NewClient(),
		results:  make(chan CheckResult, max(1, len(targets))),
		logger:   logger,
		step:     sleepStep,
	}
}

// Results returns the hand-off channel. Results arrive in target order within
// a cycle. The channel is closed when the loop exits.
func (p *Poller) Results() <-chan CheckResult {
	return p.results
}

// Start runs [Poller.Run] in a background goroutine. Subsequent calls are
// no-ops.
func (p *Poller) Start(state *RunState) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		p.Run(state)
	}()
}

// Wait blocks until a loop started with [Poller.Start] has exited, then
// releases idle connections.
func (p *Poller) Wait() {
	p.wg.Wait()
	p.client.Close()
}

// Run is the polling loop. It blocks until state is stopped.
//
// A probe already issued when shutdown is requested runs to completion or to
// its own timeout; no further probe is started afterwards.
func (p *Poller) Run(state *RunState) {
	defer p.closeOnce.Do(func() { close(p.results) })

	for state.Running() {
		seconds := p.interval.Seconds()
		cycleID := uuid.NewString()

		p.logger.Debug("cycle started",
			"cycle_id", cycleID,
			"targets", len(p.targets),
			"interval_s", seconds,
		)

		if !p.runCycle(state, cycleID) {
			break
		}
		if !p.sleep(state, seconds) {
			break
		}
	}

	p.logger.Debug("poller stopped")
}

// runCycle probes every target once and delivers the results. Returns false
// if shutdown was requested during the cycle.
func (p *Poller) runCycle(state *RunState, cycleID string) bool {
	// in-flight probes are bounded by their timeout, never cancelled
	ctx := context.Background()

	for _, target := range p.targets {
		if !state.Running() {
			return false
		}

		result := p.client.Probe(ctx, target, p.timeout)
		result.CycleID = cycleID

		select {
		case p.results <- result:
		case <-state.Done():
			return false
		}
	}
	return true
}

// sleep waits seconds steps, checking state before each one. Returns false if
// shutdown was requested.
func (p *Poller) sleep(state *RunState, seconds int) bool {
	for i := 0; i < seconds; i++ {
		if !state.Running() {
			return false
		}
		timer := time.NewTimer(p.step)
		select {
		case <-timer.C:
		case <-state.Done():
			timer.Stop()
			return false
		}
	}
	return state.Running()
}

// Probe performs a single probe with the poller's client. It is the same
// operation the loop performs for each target.
func (p *Poller) Probe(ctx context.Context, target string, timeout time.Duration) CheckResult {
	return p.client.Probe(ctx, target, timeout)
}
