package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/termdetox/terminal-detox/commands"
)

const (
	defaultWidth   = 80
	columnWidth    = 44
	maxBodyLines   = 12
	transcriptRows = 14
	boxFrame       = 4
)

const footer = "ctrl+k command line • tab focus • ctrl+f focus mode • ctrl+t theme • ctrl+r refresh • q quit"

func (m *Model) View() string {
	styles := NewStyles(m.themes.Palette())

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{m.header(styles, width)}
	if m.cliOpen {
		sections = append(sections, m.commandLine(styles, width))
	}
	sections = append(sections, m.grid(styles, width), styles.Muted.Render(fit(footer, width)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) header(styles Styles, width int) string {
	left := styles.Header.Render("Terminal Detox")
	right := styles.Muted.Render(m.themes.Current() + "  " + m.env.Now().Format("Mon Jan 2 15:04"))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) grid(styles Styles, width int) string {
	if len(m.widgets) == 0 {
		return styles.Muted.Render("No widgets enabled. Open the command line and run: toggle <widget>")
	}

	if m.focusMode {
		if w := m.focusedWidget(); w != nil {
			return m.card(w, styles, width, true)
		}
	}

	columns := width / columnWidth
	if columns < 1 {
		columns = 1
	}
	cardWidth := width / columns

	var rows []string
	for start := 0; start < len(m.widgets); start += columns {
		end := start + columns
		if end > len(m.widgets) {
			end = len(m.widgets)
		}

		cards := make([]string, 0, columns)
		for i := start; i < end; i++ {
			cards = append(cards, m.card(m.widgets[i], styles, cardWidth, i == m.focused))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// card renders a widget in its box; width includes the border
func (m *Model) card(w Widget, styles Styles, width int, focused bool) string {
	inner := width - boxFrame
	if inner < 1 {
		inner = 1
	}

	title := styles.Title.Render(w.Title())
	if status := w.Status(); status != "" {
		status = styles.Muted.Render(status)
		gap := inner - lipgloss.Width(title) - lipgloss.Width(status)
		if gap > 0 {
			title += strings.Repeat(" ", gap) + status
		}
	}

	body := w.Body(styles, inner)
	if !m.focusMode && len(body) > maxBodyLines {
		body = body[:maxBodyLines]
	}

	box := styles.Box
	if focused {
		box = styles.FocusedBox
	}
	return box.Width(inner + 2).Render(lipgloss.JoinVertical(lipgloss.Left, append([]string{title}, body...)...))
}

func (m *Model) commandLine(styles Styles, width int) string {
	inner := width - boxFrame
	if inner < 1 {
		inner = 1
	}

	var rows []string
	for _, line := range m.dispatcher.Transcript().Lines() {
		rows = append(rows, transcriptRowsFor(line, styles, inner)...)
	}
	if len(rows) > transcriptRows {
		rows = rows[len(rows)-transcriptRows:]
	}
	rows = append(rows, m.input.View())

	return styles.FocusedBox.Width(inner + 2).Render(strings.Join(rows, "\n"))
}

func transcriptRowsFor(line commands.Line, styles Styles, width int) []string {
	var rows []string
	if line.Command != "" {
		rows = append(rows, styles.Prompt.Render("> ")+styles.Text.Render(fit(line.Command, width-2)))
	}

	style := styles.Text
	switch {
	case line.Pending:
		style = styles.PendingLine
	case line.Error:
		style = styles.Error
	}

	for _, output := range strings.Split(strings.TrimRight(line.Output, "\n"), "\n") {
		rows = append(rows, style.Render(fit(output, width)))
	}
	return rows
}
