package pulsecheck

import (
	"time"

	"github.com/jpalmerr/pulsecheck/internal/board"
	"github.com/jpalmerr/pulsecheck/internal/poller"
)

// Class is the visual category of a check outcome.
//
// Class is a string type so it serializes and logs as a readable value.
type Class string

const (
	// ClassOK marks a 200 response.
	ClassOK Class = "ok"

	// ClassWarn marks any other HTTP response (redirects, 4xx, 5xx, ...).
	ClassWarn Class = "warn"

	// ClassError marks a probe that got no HTTP response at all.
	ClassError Class = "error"
)

// String returns the string representation of the class.
// This implements the fmt.Stringer interface.
func (c Class) String() string {
	return string(c)
}

// Classify maps an HTTP status code to a [Class]. A zero status code means
// the probe got no response.
func Classify(statusCode int) Class {
	return Class(board.Classify(statusCode))
}

// CheckResult holds the outcome of probing a single target once.
//
// A result has exactly one of two shapes: success, with a non-zero
// StatusCode and Elapsed set and a nil Err; or failure, with a zero
// StatusCode and Elapsed and a non-nil Err describing what went wrong.
// A non-200 response is a success shape.
type CheckResult struct {
	// Target is the probed URL.
	Target string

	// StatusCode is the HTTP status code, zero if no response was received.
	StatusCode int

	// Elapsed is the duration of the full exchange, zero on failure.
	Elapsed time.Duration

	// Err describes the failure, nil on success.
	Err error

	// CheckedAt is when the probe completed.
	CheckedAt time.Time

	// CycleID identifies the polling pass the result belongs to.
	CycleID string
}

// ElapsedSeconds returns Elapsed in seconds rounded to 2 decimals.
func (r CheckResult) ElapsedSeconds() float64 {
	return poller.RoundSeconds(r.Elapsed)
}

// Class returns the classification of the result.
func (r CheckResult) Class() Class {
	return Classify(r.StatusCode)
}

func toPublicResult(r poller.CheckResult) CheckResult {
	return CheckResult{
		Target:     r.Target,
		StatusCode: r.StatusCode,
		Elapsed:    r.Elapsed,
		Err:        r.Err,
		CheckedAt:  r.CheckedAt,
		CycleID:    r.CycleID,
	}
}
