package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary     = lipgloss.Color("#2196F3")
	accent      = lipgloss.Color("#8BC34A")
	muted       = lipgloss.Color("#7a869a")
	destructive = lipgloss.Color("#e53935")
)

type Styles struct {
	Title     lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	UserLabel lipgloss.Style
	UserText  lipgloss.Style
	BotLabel  lipgloss.Style
	Prompt    lipgloss.Style
	Help      lipgloss.Style
	Spinner   lipgloss.Style
	Frame     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(primary),
		Status:    lipgloss.NewStyle().Foreground(muted),
		Error:     lipgloss.NewStyle().Foreground(destructive),
		UserLabel: lipgloss.NewStyle().Bold(true).Foreground(primary),
		UserText:  lipgloss.NewStyle().PaddingLeft(2),
		BotLabel:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Prompt:    lipgloss.NewStyle().Foreground(primary),
		Help:      lipgloss.NewStyle().Foreground(muted).Italic(true),
		Spinner:   lipgloss.NewStyle().Foreground(accent),
		Frame:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
	}
}
