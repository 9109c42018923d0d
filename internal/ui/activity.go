package ui

import (
	"strings"
	"time"

	"github.com/five82/quill/internal/logtail"
)

// renderEditor renders the text input for the field being edited or named.
func (m Model) renderEditor() string {
	styles := m.theme.Styles()
	var title string
	switch m.mode {
	case modeEdit:
		title = "editing " + m.editing
	case modeName:
		title = "new field"
	default:
		return ""
	}
	body := styles.AccentText.Render(title) + "\n" + m.input.View()
	return styles.Editor.Width(maxInt(20, m.width-2)).Render(body)
}

// renderActivity renders the most recent log entries.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	entries := m.activity
	if len(entries) > ActivityLines {
		entries = entries[len(entries)-ActivityLines:]
	}

	lines := []string{styles.AccentText.Render("Activity")}
	if len(entries) == 0 {
		lines = append(lines, styles.FaintText.Render("nothing logged yet"))
	}
	for _, e := range entries {
		lines = append(lines, m.formatEntry(e))
	}
	return styles.Panel.Width(m.width).Render(strings.Join(lines, "\n"))
}

// formatEntry renders one entry as "15:04:05 LEVEL message field=x".
func (m Model) formatEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	parts := make([]string, 0, 4)
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.In(time.Local).Format(time.TimeOnly)))
	}
	if e.Level != "" {
		parts = append(parts, styles.LevelStyle(e.Level).Render(padRight(e.Level, 5)))
	}
	parts = append(parts, styles.Text.Render(singleLine(e.Message)))
	if detail := entryDetail(e); detail != "" {
		parts = append(parts, styles.MutedText.Render(detail))
	}
	return strings.Join(parts, " ")
}

// entryDetail picks the attributes worth showing next to the message.
func entryDetail(e logtail.Entry) string {
	var details []string
	for _, k := range []string{"field", "message", "from", "to", "error"} {
		if v := e.Attr(k); v != "" {
			details = append(details, k+"="+singleLine(v))
		}
	}
	return strings.Join(details, " ")
}
