package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#7C3AED")
	colorMuted  = lipgloss.Color("#8A8A8A")
	colorOnline = lipgloss.Color("#22C55E")
	colorTyping = lipgloss.Color("#3B82F6")
	colorIdle   = lipgloss.Color("#FACC15")
	colorError  = lipgloss.Color("#EF4444")
)

var styles = struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	errText  lipgloss.Style
	own      lipgloss.Style
	sender   lipgloss.Style
	unread   lipgloss.Style
	badge    lipgloss.Style
	selected lipgloss.Style
	active   lipgloss.Style
	panel    lipgloss.Style
	box      lipgloss.Style
	avatar   lipgloss.Style
	online   lipgloss.Style
	typing   lipgloss.Style
	idle     lipgloss.Style
}{
	title:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	muted:    lipgloss.NewStyle().Foreground(colorMuted),
	errText:  lipgloss.NewStyle().Foreground(colorError),
	own:      lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	sender:   lipgloss.NewStyle().Bold(true),
	unread:   lipgloss.NewStyle().Bold(true),
	badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(colorAccent).Padding(0, 1),
	selected: lipgloss.NewStyle().Reverse(true),
	active:   lipgloss.NewStyle().Foreground(colorAccent),
	panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1),
	box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(1, 3),
	avatar:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	online:   lipgloss.NewStyle().Foreground(colorOnline),
	typing:   lipgloss.NewStyle().Foreground(colorTyping),
	idle:     lipgloss.NewStyle().Foreground(colorIdle),
}
