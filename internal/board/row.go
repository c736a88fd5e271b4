package board

import (
	"net/http"
	"strconv"
	"time"
)

// Placeholder is shown for a field that has no value.
const Placeholder = "-"

// Class is the visual category of a row.
type Class string

const (
	// ClassUnset marks a row that has not received a result yet.
	ClassUnset Class = "unset"

	// ClassOK marks a 200 response.
	ClassOK Class = "ok"

	// ClassWarn marks any other HTTP response.
	ClassWarn Class = "warn"

	// ClassError marks a probe that got no HTTP response at all.
	ClassError Class = "error"
)

// String returns the string representation of the class.
func (c Class) String() string {
	return string(c)
}

// Classify maps a status code to a [Class]. A zero code means the probe got
// no response.
func Classify(statusCode int) Class {
	switch {
	case statusCode == http.StatusOK:
		return ClassOK
	case statusCode == 0:
		return ClassError
	default:
		return ClassWarn
	}
}

// Row is the display state of one target.
//
// Row is the JSON shape served by the web presenter. Absent values are nil and
// serialize as null.
type Row struct {
	// Target is the probed URL; it is also the row key.
	Target string `json:"target"`

	// StatusCode is the last HTTP status, nil if absent.
	StatusCode *int `json:"status_code"`

	// ElapsedSeconds is the last response time rounded to 2 decimals, nil if absent.
	ElapsedSeconds *float64 `json:"elapsed_seconds"`

	// Error is the last failure text, nil if absent.
	Error *string `json:"error"`

	// Class is the classification of the last result.
	Class Class `json:"class"`

	// CheckedAt is when the last result was produced, nil before the first one.
	CheckedAt *time.Time `json:"checked_at"`
}

// CodeText returns the status for display.
func (r Row) CodeText() string {
	if r.StatusCode == nil {
		return Placeholder
	}
	return strconv.Itoa(*r.StatusCode)
}

// ElapsedText returns the response time in seconds with 2 decimals for display.
func (r Row) ElapsedText() string {
	if r.ElapsedSeconds == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*r.ElapsedSeconds, 'f', 2, 64)
}

// ErrorText returns the error verbatim for display.
func (r Row) ErrorText() string {
	if r.Error == nil {
		return Placeholder
	}
	return *r.Error
}

// Updated reports whether the row has received at least one result.
func (r Row) Updated() bool {
	return r.CheckedAt != nil
}
