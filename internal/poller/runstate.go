package poller

import (
	"sync"
	"sync/atomic"
)

// RunState is the cooperative shutdown token shared by a presenter and the
// poller it starts.
//
// It begins running and is stopped exactly once; it is never reset.
type RunState struct {
	running atomic.Bool
	done    chan struct{}
	once    sync.Once
}

// NewRunState returns a running [RunState].
func NewRunState() *RunState {
	s := &RunState{done: make(chan struct{})}
	s.running.Store(true)
	return s
}

// Running reports whether shutdown has not been requested yet.
func (s *RunState) Running() bool {
	return s.running.Load()
}

// Stop requests shutdown. Safe to call multiple times and from any goroutine.
func (s *RunState) Stop() {
	s.once.Do(func() {
		s.running.Store(false)
		close(s.done)
	})
}

// Done returns a channel closed when [RunState.Stop] is first called.
func (s *RunState) Done() <-chan struct{} {
	return s.done
}
