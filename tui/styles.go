package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/termdetox/terminal-detox/theme"
)

// Styles are the lipgloss styles derived from a theme palette
type Styles struct {
	Palette     theme.Palette
	Title       lipgloss.Style
	Text        lipgloss.Style
	Muted       lipgloss.Style
	Accent      lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Box         lipgloss.Style
	FocusedBox  lipgloss.Style
	Header      lipgloss.Style
	Prompt      lipgloss.Style
	PendingLine lipgloss.Style
}

// NewStyles builds the styles for a palette
func NewStyles(palette theme.Palette) Styles {
	color := func(hex string) lipgloss.Color {
		return lipgloss.Color(hex)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(palette.Border)).
		Padding(0, 1)

	return Styles{
		Palette:     palette,
		Title:       lipgloss.NewStyle().Foreground(color(palette.Primary)).Bold(true),
		Text:        lipgloss.NewStyle().Foreground(color(palette.Foreground)),
		Muted:       lipgloss.NewStyle().Foreground(color(palette.Secondary)),
		Accent:      lipgloss.NewStyle().Foreground(color(palette.Accent)),
		Success:     lipgloss.NewStyle().Foreground(color(palette.Success)),
		Warning:     lipgloss.NewStyle().Foreground(color(palette.Warning)),
		Error:       lipgloss.NewStyle().Foreground(color(palette.Error)),
		Box:         box,
		FocusedBox:  box.BorderForeground(color(palette.Primary)),
		Header:      lipgloss.NewStyle().Foreground(color(palette.Background)).Background(color(palette.Primary)).Bold(true).Padding(0, 1),
		Prompt:      lipgloss.NewStyle().Foreground(color(palette.Success)).Bold(true),
		PendingLine: lipgloss.NewStyle().Foreground(color(palette.Muted)).Italic(true),
	}
}

// Change colours a signed value as a gain or a loss
func (s Styles) Change(value float64, text string) string {
	switch {
	case value > 0:
		return s.Success.Render(text)
	case value < 0:
		return s.Error.Render(text)
	}
	return s.Muted.Render(text)
}

// fit truncates a single line to the width
func fit(line string, width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}
