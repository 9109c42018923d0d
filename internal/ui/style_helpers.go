package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusBar builds a one-line bar whose segments all share one background.
// lipgloss resets the background after every styled run, so each word and
// every gap is rendered with the bar color explicitly.
type statusBar struct {
	bg       lipgloss.Color
	fill     lipgloss.Style
	segments []string
}

func newStatusBar(bgColor string) *statusBar {
	bg := lipgloss.Color(bgColor)
	return &statusBar{bg: bg, fill: lipgloss.NewStyle().Background(bg)}
}

// add appends text rendered with style on the bar background. Empty text is
// skipped.
func (b *statusBar) add(text string, style lipgloss.Style) *statusBar {
	if text == "" {
		return b
	}
	styled := style.Background(b.bg)
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = styled.Render(w)
		}
	}
	b.segments = append(b.segments, strings.Join(words, b.fill.Render(" ")))
	return b
}

// render joins the segments with sep and pads the line to width.
func (b *statusBar) render(sep string, width int) string {
	line := strings.Join(b.segments, b.fill.Render(sep))
	if width <= 0 {
		return line
	}
	return b.fill.Width(width).Render(line)
}
