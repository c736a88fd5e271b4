package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jpalmerr/pulsecheck/internal/board"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#868e96"))
	inputStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.NormalBorder())

	rowText = lipgloss.Color("#212529")

	classStyles = map[board.Class]lipgloss.Style{
		board.ClassUnset: lipgloss.NewStyle(),
		board.ClassOK:    lipgloss.NewStyle().Foreground(rowText).Background(lipgloss.Color("#d4edda")),
		board.ClassWarn:  lipgloss.NewStyle().Foreground(rowText).Background(lipgloss.Color("#fff3cd")),
		board.ClassError: lipgloss.NewStyle().Foreground(rowText).Background(lipgloss.Color("#f8d7da")),
	}

	warningStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#b02a37")).
			Padding(0, 2)

	infoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#146c43")).
			Padding(0, 2)
)

func styleFor(c board.Class) lipgloss.Style {
	if s, ok := classStyles[c]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
