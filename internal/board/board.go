package board

import (
	"sync"

	"github.com/jpalmerr/pulsecheck/internal/poller"
)

const subscriberBuffer = 100

// Board is the ordered, fixed set of rows of a presenter.
//
// Board is safe for concurrent use. Presenters apply results from a single
// goroutine; readers (HTTP handlers, renderers) take snapshots.
type Board struct {
	mu    sync.RWMutex
	order []string
	rows  map[string]Row

	subMu       sync.RWMutex
	subscribers map[chan Row]struct{}
}

// New creates a [Board] with one placeholder row per target, in order.
// Duplicate targets share a single row. The monitor and the config loader
// reject duplicates before a board is built, so only direct callers of this
// package reach that case.
func New(targets []string) *Board {
	b := &Board{
		order:       make([]string, 0, len(targets)),
		rows:        make(map[string]Row, len(targets)),
		subscribers: make(map[chan Row]struct{}),
	}
	for _, t := range targets {
		if _, exists := b.rows[t]; exists {
			continue
		}
		b.order = append(b.order, t)
		b.rows[t] = Row{Target: t, Class: ClassUnset}
	}
	return b
}

// Apply updates the row of result.Target and notifies subscribers.
//
// Results for targets the board was not created with are ignored and false
// is returned: rows are never added after construction.
func (b *Board) Apply(result poller.CheckResult) (Row, bool) {
	b.mu.Lock()
	if _, exists := b.rows[result.Target]; !exists {
		b.mu.Unlock()
		return Row{}, false
	}
	row := rowFromResult(result)
	b.rows[result.Target] = row
	b.mu.Unlock()

	b.notifySubscribers(row)
	return row, true
}

// rowFromResult converts a check result into its display row.
func rowFromResult(result poller.CheckResult) Row {
	checkedAt := result.CheckedAt
	row := Row{
		Target:    result.Target,
		Class:     Classify(result.StatusCode),
		CheckedAt: &checkedAt,
	}

	if result.StatusCode != 0 {
		code := result.StatusCode
		elapsed := result.ElapsedSeconds()
		row.StatusCode = &code
		row.ElapsedSeconds = &elapsed
	}
	if msg := result.ErrorMessage(); msg != "" {
		row.Error = &msg
	}
	return row
}

// Rows returns a snapshot of all rows in target order.
func (b *Board) Rows() []Row {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rows := make([]Row, 0, len(b.order))
	for _, t := range b.order {
		rows = append(rows, b.rows[t])
	}
	return rows
}

// Row returns the row for target.
func (b *Board) Row(target string) (Row, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	row, ok := b.rows[target]
	return row, ok
}

// Len returns the number of rows.
func (b *Board) Len() int {
	return len(b.order)
}

// Subscribe creates a new subscription and returns a channel for row updates.
//
// Caller must call [Board.Unsubscribe] when done to prevent resource leaks.
func (b *Board) Subscribe() <-chan Row {
	ch := make(chan Row, subscriberBuffer)

	b.subMu.Lock()
	b.subscribers[ch] = struct{}{}
	b.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (b *Board) Unsubscribe(ch <-chan Row) {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	for subCh := range b.subscribers {
		if subCh == ch {
			delete(b.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the row to all active subscribers without blocking.
func (b *Board) notifySubscribers(row Row) {
	b.subMu.RLock()
	defer b.subMu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- row:
		default:
			// subscriber is slow, drop the update
		}
	}
}
