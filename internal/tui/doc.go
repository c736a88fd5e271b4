// Package tui is the terminal presenter of pulsecheck.
//
// It runs a bubbletea program that owns the display: check results arrive
// as messages and are applied to the board on the program's event loop, one
// at a time, in the order the poller produced them. The operator can change
// the polling interval from the keyboard and close the program, which stops
// the poller.
package tui
