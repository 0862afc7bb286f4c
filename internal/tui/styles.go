package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/randomtoy/lifeassist-go/internal/domain"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	value    lipgloss.Style
	dim      lipgloss.Style
	warning  lipgloss.Style
	errText  lipgloss.Style
	box      lipgloss.Style
	entry    lipgloss.Style
	entryCur lipgloss.Style
	help     lipgloss.Style
}

func newStyles(theme domain.Theme) styles {
	accent, fg, muted, border := lipgloss.Color("39"), lipgloss.Color("252"), lipgloss.Color("242"), lipgloss.Color("238")
	if theme == domain.ThemeLight {
		accent, fg, muted, border = lipgloss.Color("25"), lipgloss.Color("235"), lipgloss.Color("245"), lipgloss.Color("250")
	}

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(0, 1),
		label: lipgloss.NewStyle().
			Width(10).
			Foreground(muted),
		focused: lipgloss.NewStyle().
			Width(10).
			Bold(true).
			Foreground(accent),
		value: lipgloss.NewStyle().
			Foreground(fg),
		dim: lipgloss.NewStyle().
			Foreground(muted),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		errText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		entry: lipgloss.NewStyle().
			Foreground(fg),
		entryCur: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		help: lipgloss.NewStyle().
			Foreground(muted),
	}
}
