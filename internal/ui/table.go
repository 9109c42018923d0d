package ui

import (
	"fmt"
	"strings"

	"github.com/five82/quill/internal/machine"
)

// renderFields renders one line per field: name, status badge, value.
func (m Model) renderFields() string {
	styles := m.theme.Styles()
	if m.rows.len() == 0 {
		return styles.FaintText.Render("  no fields yet, press n to add one")
	}

	lines := make([]string, 0, m.rows.len())
	for i, row := range m.rows.rows {
		lines = append(lines, m.renderRow(i, row))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(i int, row *fieldRow) string {
	styles := m.theme.Styles()
	selected := i == m.selectedRow

	cursor := ternary(selected, "›", " ")
	name := padRight(truncate(row.name, LayoutNameWidth), LayoutNameWidth)

	status := row.status()
	badge := styles.StatusStyle(badgeKey(row, status)).Render(badgeLabel(row, status, m.width))

	value := row.ctrl.Value()
	valueStyle := styles.Text
	switch {
	case row.lastErr != nil && status == machine.Editing:
		valueStyle = styles.DangerText
	case status == machine.Editing:
		valueStyle = styles.WarningText
	case status == machine.Committing:
		valueStyle = styles.InfoText
	}
	valueWidth := m.width - LayoutNameWidth - 16
	shown := truncate(singleLine(value), valueWidth)
	if shown == "" {
		shown = styles.FaintText.Render("(empty)")
	} else {
		shown = valueStyle.Render(shown)
	}

	label := fmt.Sprintf("%s %s", cursor, name)
	if selected {
		label = styles.Selected.Render(label)
	} else {
		label = styles.Text.Render(label)
	}
	return label + " " + badge + " " + shown
}

// badgeKey picks the badge color. Drafts and failed commits get their own.
func badgeKey(row *fieldRow, status machine.Status) string {
	switch {
	case row.lastErr != nil && status == machine.Editing:
		return "failed"
	case row.draft && status == machine.Presenting:
		return "draft"
	default:
		return status.String()
	}
}

func badgeLabel(row *fieldRow, status machine.Status, width int) string {
	label := strings.ToLower(badgeKey(row, status))
	if width > 0 && width < LayoutCompactWidth {
		return strings.ToUpper(label[:1])
	}
	return padRight(label, len("committing"))
}
