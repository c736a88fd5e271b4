// Package board holds the display model shared by the pulsecheck presenters.
//
// A [Board] has exactly one [Row] per target, created up front with
// placeholder values. Rows are updated as check results arrive and are never
// added or removed afterwards. Subscribers receive every row update via
// channels with non-blocking sends (slow subscribers miss updates rather than
// block the presenter).
//
// The main components are:
//
//   - [Board]: ordered rows with pub/sub for live updates
//   - [Row]: the display state of one target
//   - [Class]: the ok/warn/error classification of a row
package board
