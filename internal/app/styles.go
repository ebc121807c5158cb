package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"prterm/internal/markdown"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true)
	styleStatus = lipgloss.NewStyle().Faint(true)
	styleError  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleFooter = lipgloss.NewStyle().Faint(true)

	styleActive   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleSubline  = lipgloss.NewStyle().Faint(true)
	styleLocation = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	borderFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6"))
	borderBlurred = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8"))
)

func panelStyle(focused bool) lipgloss.Style {
	if focused {
		return borderFocused
	}
	return borderBlurred
}

var paletteColors = map[markdown.Color]lipgloss.Color{
	markdown.ColorBlue:    lipgloss.Color("4"),
	markdown.ColorCyan:    lipgloss.Color("6"),
	markdown.ColorGreen:   lipgloss.Color("2"),
	markdown.ColorMagenta: lipgloss.Color("5"),
	markdown.ColorRed:     lipgloss.Color("1"),
	markdown.ColorYellow:  lipgloss.Color("3"),
	markdown.ColorGray:    lipgloss.Color("8"),
}

// renderWrapped turns one wrapped line into a styled terminal string. Span
// attributes win over the line-level color/dim they inherit from.
func renderWrapped(w markdown.WrappedLine) string {
	var b strings.Builder
	for _, s := range w.Spans {
		style := lipgloss.NewStyle()

		color := s.Color
		if color == markdown.ColorNone {
			color = w.Color
		}
		if c, ok := paletteColors[color]; ok {
			style = style.Foreground(c)
		}
		if s.Bold {
			style = style.Bold(true)
		}
		if s.Italic {
			style = style.Italic(true)
		}
		if s.Underline {
			style = style.Underline(true)
		}
		if s.Dim || w.Dim {
			style = style.Faint(true)
		}
		b.WriteString(style.Render(s.Text))
	}
	return b.String()
}
