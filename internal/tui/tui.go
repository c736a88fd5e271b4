package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jpalmerr/pulsecheck/internal/board"
	"github.com/jpalmerr/pulsecheck/internal/poller"
)

// Options configures a [Presenter].
type Options struct {
	// Title is shown above the table. Defaults to "pulsecheck".
	Title string

	// Logger receives interval changes and ignored results. The terminal is
	// owned by the program, so this should not write to stderr.
	Logger *slog.Logger

	// ProgramOptions are passed to bubbletea, e.g. to redirect input/output.
	ProgramOptions []tea.ProgramOption
}

// Presenter shows the board in the terminal until the operator closes it.
type Presenter struct {
	board    *board.Board
	interval *poller.Interval
	state    *poller.RunState
	results  <-chan poller.CheckResult
	opts     Options
}

// New creates a [Presenter] that applies results to b as they arrive.
//
// Closing the presenter stops state; results is read until the program
// exits.
func New(b *board.Board, interval *poller.Interval, state *poller.RunState, results <-chan poller.CheckResult, opts Options) *Presenter {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Presenter{
		board:    b,
		interval: interval,
		state:    state,
		results:  results,
		opts:     opts,
	}
}

// Run blocks until the operator closes the program or ctx is cancelled.
// Either way the run state is stopped before Run returns.
func (p *Presenter) Run(ctx context.Context) error {
	defer p.state.Stop()

	m := newModel(p.board, p.interval, p.state, p.results, p.opts.Title, p.opts.Logger)

	progOpts := append([]tea.ProgramOption{tea.WithContext(ctx)}, p.opts.ProgramOptions...)
	prog := tea.NewProgram(m, progOpts...)

	if _, err := prog.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal presenter: %w", err)
	}
	return nil
}
