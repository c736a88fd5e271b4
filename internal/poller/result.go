package poller

import (
	"math"
	"time"
)

// CheckResult holds the outcome of probing a single target.
//
// A result has one of two shapes. A completed HTTP exchange has a non-zero
// StatusCode, the Elapsed time and a nil Err. A failed exchange has a zero
// StatusCode, a zero Elapsed and a non-nil Err.
type CheckResult struct {
	// Target is the URL that was probed.
	Target string

	// StatusCode is the HTTP status code. Zero if no response was received.
	StatusCode int

	// Elapsed is the duration of the exchange. Zero on failure.
	Elapsed time.Duration

	// Err describes why the probe failed. nil on success.
	Err error

	// CheckedAt is when the probe finished.
	CheckedAt time.Time

	// CycleID identifies the polling cycle that produced the result.
	CycleID string
}

// OK reports whether the probe completed an HTTP exchange.
func (r CheckResult) OK() bool {
	return r.Err == nil && r.StatusCode != 0
}

// ElapsedSeconds returns the elapsed time in seconds rounded to 2 decimals.
func (r CheckResult) ElapsedSeconds() float64 {
	return RoundSeconds(r.Elapsed)
}

// ErrorMessage returns the failure text, or "" on success.
func (r CheckResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// RoundSeconds converts d to seconds rounded to 2 decimals.
func RoundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
