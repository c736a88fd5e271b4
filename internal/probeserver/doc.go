// Package probeserver is a minimal HTTP endpoint used as a check target.
//
// It answers one fixed path with 200 "OK" and every other path with an empty
// 404. It holds no state.
package probeserver
