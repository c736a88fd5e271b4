package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jpalmerr/pulsecheck/internal/board"
	"github.com/jpalmerr/pulsecheck/internal/poller"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestModel(t *testing.T, targets ...string) (model, chan poller.CheckResult) {
	t.Helper()
	iv, err := poller.NewInterval(30)
	if err != nil {
		t.Fatalf("NewInterval() error = %v", err)
	}
	results := make(chan poller.CheckResult, 1)
	return newModel(board.New(targets), iv, poller.NewRunState(), results, "", testLogger()), results
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typed(s string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, runes(string(r)))
	}
	return keys
}

var (
	keyEnter     = tea.KeyMsg{Type: tea.KeyEnter}
	keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}
	keyUp        = tea.KeyMsg{Type: tea.KeyUp}
	keyDown      = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc       = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlC     = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func clearInput(t *testing.T, m model) model {
	t.Helper()
	for range m.pending {
		m = press(t, m, keyBackspace)
	}
	return m
}

func TestModel_ResultAppliedAndWaitRearmed(t *testing.T) {
	m, results := newTestModel(t, "http://a.example")

	next, cmd := m.Update(resultMsg(poller.CheckResult{
		Target:     "http://a.example",
		StatusCode: 404,
		Elapsed:    20 * time.Millisecond,
		CheckedAt:  time.Now(),
	}))
	m = next.(model)

	row, _ := m.board.Row("http://a.example")
	if row.CodeText() != "404" || row.Class != board.ClassWarn {
		t.Errorf("row = %+v, want 404 warn", row)
	}

	if cmd == nil {
		t.Fatal("Update() returned no command, want the next wait")
	}
	results <- poller.CheckResult{Target: "http://a.example", StatusCode: 200}
	msg := cmd()
	if r, ok := msg.(resultMsg); !ok || r.StatusCode != 200 {
		t.Errorf("wait command returned %#v, want the next result", msg)
	}
}

func TestModel_ResultsClosed(t *testing.T) {
	m, results := newTestModel(t)
	close(results)

	msg := waitForResult(results)()
	if _, ok := msg.(resultsClosedMsg); !ok {
		t.Fatalf("waitForResult() = %#v, want resultsClosedMsg", msg)
	}

	if _, cmd := m.Update(msg); cmd != nil {
		t.Error("Update(resultsClosedMsg) should not re-arm the wait")
	}
}

func TestModel_ResultsAppliedInOrder(t *testing.T) {
	m, _ := newTestModel(t, "http://a.example")

	for _, code := range []int{500, 200, 301} {
		next, _ := m.Update(resultMsg(poller.CheckResult{Target: "http://a.example", StatusCode: code}))
		m = next.(model)
	}

	row, _ := m.board.Row("http://a.example")
	if row.CodeText() != "301" {
		t.Errorf("CodeText() = %q, want last delivered %q", row.CodeText(), "301")
	}
}

func TestModel_UnknownTargetIgnored(t *testing.T) {
	m, _ := newTestModel(t, "http://a.example")

	next, _ := m.Update(resultMsg(poller.CheckResult{Target: "http://other.example", StatusCode: 200}))
	m = next.(model)

	if m.board.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.board.Len())
	}
}

func TestModel_SetInterval(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantInterval int
		wantKind     noticeKind
	}{
		{name: "below minimum rejected", input: "4", wantInterval: 30, wantKind: noticeWarning},
		{name: "zero rejected", input: "0", wantInterval: 30, wantKind: noticeWarning},
		{name: "minimum accepted", input: "5", wantInterval: 5, wantKind: noticeInfo},
		{name: "maximum accepted", input: "300", wantInterval: 300, wantKind: noticeInfo},
		{name: "above maximum clamped", input: "301", wantInterval: 300, wantKind: noticeInfo},
		{name: "empty input", input: "", wantInterval: 30, wantKind: noticeWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m = clearInput(t, m)
			m = press(t, m, typed(tt.input)...)
			m = press(t, m, keyEnter)

			if got := m.interval.Seconds(); got != tt.wantInterval {
				t.Errorf("interval = %d, want %d", got, tt.wantInterval)
			}
			if m.notice == nil {
				t.Fatal("expected a notice after enter")
			}
			if m.notice.kind != tt.wantKind {
				t.Errorf("notice kind = %v, want %v (%q)", m.notice.kind, tt.wantKind, m.notice.text)
			}
			if m.pending != "" && m.pending != strconv.Itoa(tt.wantInterval) {
				t.Errorf("pending = %q, want %d", m.pending, tt.wantInterval)
			}
		})
	}
}

func TestModel_WarningText(t *testing.T) {
	m, _ := newTestModel(t)
	m = clearInput(t, m)
	m = press(t, m, append(typed("4"), keyEnter)...)

	if !strings.Contains(m.View(), "The minimum interval is 5 seconds.") {
		t.Errorf("View() missing warning, got:\n%s", m.View())
	}
}

func TestModel_NoticeDismissedByAnyKey(t *testing.T) {
	m, _ := newTestModel(t)
	m = clearInput(t, m)
	m = press(t, m, append(typed("10"), keyEnter)...)
	if m.notice == nil {
		t.Fatal("expected a confirmation notice")
	}

	// the dismissing key is not interpreted
	m = press(t, m, runes("q"))
	if m.notice != nil {
		t.Error("notice should be dismissed")
	}
	if !m.state.Running() {
		t.Error("dismissing key should not close the program")
	}
}

func TestModel_ArrowsClampToBounds(t *testing.T) {
	m, _ := newTestModel(t)

	m = clearInput(t, m)
	m = press(t, m, typed("299")...)
	m = press(t, m, keyUp, keyUp, keyUp)
	if m.pending != "300" {
		t.Errorf("pending = %q after up at max, want %q", m.pending, "300")
	}

	m = clearInput(t, m)
	m = press(t, m, typed("6")...)
	m = press(t, m, keyDown, keyDown, keyDown)
	if m.pending != "5" {
		t.Errorf("pending = %q after down at min, want %q", m.pending, "5")
	}

	if m.interval.Seconds() != 30 {
		t.Errorf("interval = %d, arrows must not apply", m.interval.Seconds())
	}
}

func TestModel_InputIgnoresNonDigits(t *testing.T) {
	m, _ := newTestModel(t)
	m = clearInput(t, m)
	m = press(t, m, typed("1a2b")...)

	if m.pending != "12" {
		t.Errorf("pending = %q, want %q", m.pending, "12")
	}
}

func TestModel_Close(t *testing.T) {
	for _, key := range []tea.KeyMsg{runes("q"), keyEsc, keyCtrlC} {
		t.Run(key.String(), func(t *testing.T) {
			m, _ := newTestModel(t)

			next, cmd := m.Update(key)
			m = next.(model)

			if m.state.Running() {
				t.Error("close should stop the run state")
			}
			if cmd == nil {
				t.Fatal("close should return a command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("close should quit the program")
			}
			if m.View() != "" {
				t.Error("View() should be empty after close")
			}
		})
	}
}

func TestModel_CtrlCClosesWithNotice(t *testing.T) {
	m, _ := newTestModel(t)
	m = clearInput(t, m)
	m = press(t, m, append(typed("4"), keyEnter)...)

	m = press(t, m, keyCtrlC)
	if m.state.Running() {
		t.Error("ctrl+c should close even while a notice is shown")
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, "http://a.example", "http://b.example")
	m.board.Apply(poller.CheckResult{Target: "http://a.example", StatusCode: 200, Elapsed: 1237 * time.Millisecond})
	m.board.Apply(poller.CheckResult{Target: "http://b.example", Err: errors.New("connection refused")})

	view := m.View()
	for _, want := range []string{"Endpoint", "Code", "Time (s)", "Error", "http://a.example", "1.24", "connection refused", "pulsecheck"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q, got:\n%s", want, view)
		}
	}
	if strings.Index(view, "http://a.example") > strings.Index(view, "http://b.example") {
		t.Error("rows should be rendered in target order")
	}
}

func TestModel_TableAlignsNumericColumns(t *testing.T) {
	m, _ := newTestModel(t, "http://a.example", "http://b.example")
	m.board.Apply(poller.CheckResult{Target: "http://a.example", StatusCode: 200, Elapsed: 1237 * time.Millisecond})
	m.board.Apply(poller.CheckResult{Target: "http://b.example", Err: errors.New("connection refused")})

	var okLine, errLine string
	for _, line := range strings.Split(m.table(), "\n") {
		switch {
		case strings.Contains(line, "http://a.example"):
			okLine = line
		case strings.Contains(line, "http://b.example"):
			errLine = line
		}
	}
	if okLine == "" || errLine == "" {
		t.Fatalf("table() missing a row, got:\n%s", m.table())
	}

	// the code column is right-aligned: "-" ends where "200" ends
	end := strings.Index(okLine, "200") + len("200")
	if end > len(errLine) || errLine[end-1] != '-' {
		t.Errorf("code column not right-aligned:\n%s\n%s", okLine, errLine)
	}
	if !strings.Contains(errLine, "connection refused") {
		t.Errorf("error row = %q, want the error text", errLine)
	}
}

func TestPresenter_RunStopsOnContextCancel(t *testing.T) {
	iv, _ := poller.NewInterval(30)
	state := poller.NewRunState()
	results := make(chan poller.CheckResult)

	p := New(board.New([]string{"http://a.example"}), iv, state, results, Options{
		Logger:         testLogger(),
		ProgramOptions: []tea.ProgramOption{tea.WithInput(nil), tea.WithOutput(io.Discard)},
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancellation", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}

	if state.Running() {
		t.Error("Run() should stop the run state on exit")
	}
	close(results)
}
