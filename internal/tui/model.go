package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jpalmerr/pulsecheck/internal/board"
	"github.com/jpalmerr/pulsecheck/internal/poller"
)

// maxInputDigits bounds the typed interval; anything longer clamps anyway.
const maxInputDigits = 4

var columns = []string{"Endpoint", "Code", "Time (s)", "Error"}

// resultMsg carries one check result into the event loop.
type resultMsg poller.CheckResult

// resultsClosedMsg reports that the poller has delivered its last result.
type resultsClosedMsg struct{}

// waitForResult returns a command that blocks until the next result arrives.
func waitForResult(results <-chan poller.CheckResult) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return resultsClosedMsg{}
		}
		return resultMsg(r)
	}
}

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeWarning
)

// notice is a modal message; while it is shown, the next key dismisses it.
type notice struct {
	kind noticeKind
	text string
}

// model is the bubbletea model of the terminal presenter.
type model struct {
	title    string
	board    *board.Board
	interval *poller.Interval
	state    *poller.RunState
	results  <-chan poller.CheckResult
	logger   *slog.Logger

	pending string
	notice  *notice
	closed  bool
}

func newModel(b *board.Board, interval *poller.Interval, state *poller.RunState, results <-chan poller.CheckResult, title string, logger *slog.Logger) model {
	return model{
		title:    title,
		board:    b,
		interval: interval,
		state:    state,
		results:  results,
		logger:   logger,
		pending:  strconv.Itoa(interval.Seconds()),
	}
}

func (m model) Init() tea.Cmd {
	if m.results == nil {
		return nil
	}
	return waitForResult(m.results)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.onResult(poller.CheckResult(msg))
		return m, waitForResult(m.results)

	case resultsClosedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m *model) onResult(r poller.CheckResult) {
	if _, ok := m.board.Apply(r); !ok {
		m.logger.Debug("result for unknown target ignored", "target", r.Target)
	}
}

func (m model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m.onClose()
	}

	if m.notice != nil {
		m.notice = nil
		return m, nil
	}

	switch key {
	case "q", "esc":
		return m.onClose()
	case "up", "k", "+":
		m.step(1)
	case "down", "j", "-":
		m.step(-1)
	case "backspace":
		if len(m.pending) > 0 {
			m.pending = m.pending[:len(m.pending)-1]
		}
	case "enter":
		m.setInterval()
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && len(m.pending) < maxInputDigits {
			m.pending += key
		}
	}
	return m, nil
}

// step moves the pending value by delta, bounded to the accepted range.
func (m *model) step(delta int) {
	n, err := strconv.Atoi(m.pending)
	if err != nil {
		n = m.interval.Seconds()
	}
	n = max(poller.MinInterval, min(n+delta, poller.MaxInterval))
	m.pending = strconv.Itoa(n)
}

// setInterval applies the pending value and reports the outcome in a notice.
func (m *model) setInterval() {
	n, err := strconv.Atoi(m.pending)
	if err != nil {
		m.notice = &notice{kind: noticeWarning, text: "Enter the interval in whole seconds."}
		m.pending = strconv.Itoa(m.interval.Seconds())
		return
	}

	applied, err := m.interval.Set(n)
	m.pending = strconv.Itoa(applied)
	if err != nil {
		m.logger.Warn("interval rejected", "requested_s", n, "error", err)
		m.notice = &notice{kind: noticeWarning, text: fmt.Sprintf("The minimum interval is %d seconds.", poller.MinInterval)}
		return
	}

	m.logger.Info("interval updated", "interval_s", applied)
	m.notice = &notice{kind: noticeInfo, text: fmt.Sprintf("New interval: %ds", applied)}
}

// onClose stops the poller and ends the program.
func (m model) onClose() (tea.Model, tea.Cmd) {
	m.state.Stop()
	m.closed = true
	return m, tea.Quit
}

func (m model) View() string {
	if m.closed {
		return ""
	}

	var b strings.Builder
	title := m.title
	if title == "" {
		title = "pulsecheck"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.table())
	b.WriteString("\n\n")

	input := inputStyle.Render(fmt.Sprintf("%3s", m.pending))
	label := fmt.Sprintf("Interval (s), current %ds:", m.interval.Seconds())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, label, " ", input))
	b.WriteString("\n")

	if m.notice != nil {
		style := infoStyle
		if m.notice.kind == noticeWarning {
			style = warningStyle
		}
		b.WriteString(style.Render(m.notice.text + "\n\n" + helpStyle.Render("press any key")))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(helpStyle.Render("↑/↓ adjust • 0-9 type • enter apply • q quit"))
	b.WriteString("\n")
	return b.String()
}

// table renders the rows, one color per class, with the numeric columns
// right-aligned.
func (m model) table() string {
	rows := m.board.Rows()

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := headerStyle
			if row != table.HeaderRow {
				style = styleFor(rows[row].Class)
			}
			style = style.Padding(0, 1)
			if col == 1 || col == 2 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})
	for _, r := range rows {
		t.Row(r.Target, r.CodeText(), r.ElapsedText(), r.ErrorText())
	}
	return t.Render()
}
