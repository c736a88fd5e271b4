package poller

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Interval bounds, in seconds.
const (
	MinInterval = 5
	MaxInterval = 300
)

// ErrIntervalTooShort is returned by [Interval.Set] for values below [MinInterval].
var ErrIntervalTooShort = fmt.Errorf("interval must be at least %d seconds", MinInterval)

// Interval is the polling interval in whole seconds, shared between the
// presenter that changes it and the poller that reads it once per cycle.
type Interval struct {
	seconds atomic.Int64
}

// NewInterval returns an [Interval] holding seconds.
//
// Returns an error if seconds is outside [MinInterval, MaxInterval].
// Construction-time values are rejected rather than clamped.
func NewInterval(seconds int) (*Interval, error) {
	if seconds < MinInterval || seconds > MaxInterval {
		return nil, fmt.Errorf("interval must be between %d and %d seconds, got %d", MinInterval, MaxInterval, seconds)
	}
	iv := &Interval{}
	iv.seconds.Store(int64(seconds))
	return iv, nil
}

// Seconds returns the current interval.
func (iv *Interval) Seconds() int {
	return int(iv.seconds.Load())
}

// Set validates and stores a new interval, returning the value applied.
//
// Values below [MinInterval] are rejected with [ErrIntervalTooShort] and the
// current interval is left unchanged. Values above [MaxInterval] are clamped.
// The poller picks the new value up at the start of its next cycle.
func (iv *Interval) Set(seconds int) (int, error) {
	if seconds < MinInterval {
		return iv.Seconds(), ErrIntervalTooShort
	}
	seconds = min(seconds, MaxInterval)
	iv.seconds.Store(int64(seconds))
	return seconds, nil
}

// IsTooShort reports whether err is a rejection from [Interval.Set].
func IsTooShort(err error) bool {
	return errors.Is(err, ErrIntervalTooShort)
}
