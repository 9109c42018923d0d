package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quill/internal/machine"
)

// renderMain renders the full UI.
func (m Model) renderMain() string {
	sections := []string{
		m.renderHeader(),
		m.renderFields(),
	}
	if editor := m.renderEditor(); editor != "" {
		sections = append(sections, editor)
	}
	if m.showActivity {
		sections = append(sections, m.renderActivity())
	}
	sections = append(sections, m.renderStatusLine(), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader shows the logo, document, revision and load state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bar := newStatusBar(m.theme.Surface).add("quill", styles.Logo)

	path := "(no document)"
	if m.store != nil {
		path = filepath.Base(m.store.Path())
	}
	bar.add(path, styles.Text)

	doc := m.snapshot.Document
	bar.add(fmt.Sprintf("%d fields", len(doc.Fields)), styles.MutedText)
	if doc.Revision != "" {
		bar.add("rev "+truncate(doc.Revision, 8), styles.FaintText)
	}

	counts := m.statusCounts()
	if n := counts[machine.Editing]; n > 0 {
		bar.add(fmt.Sprintf("%d editing", n), styles.WarningText)
	}
	if n := counts[machine.Committing]; n > 0 {
		bar.add(fmt.Sprintf("%d committing", n), styles.InfoText)
	}

	switch {
	case m.snapshot.IsStale():
		bar.add("STALE", styles.DangerText)
	case m.snapshot.LastError != nil:
		bar.add("reload failed", styles.WarningText)
	case !m.lastUpdated.IsZero():
		bar.add("updated "+m.lastUpdated.Format(time.TimeOnly), styles.FaintText)
	}

	bar.add(m.theme.Name, styles.FaintText)
	return bar.render(" │ ", m.width)
}

func (m Model) statusCounts() map[machine.Status]int {
	counts := make(map[machine.Status]int, len(machine.Statuses))
	for _, r := range m.rows.rows {
		counts[r.status()]++
	}
	return counts
}

// renderStatusLine shows the outcome of the most recent action.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	switch {
	case m.notice == "":
		if err := m.snapshot.LastError; err != nil {
			return styles.WarningText.Render(truncate(singleLine(err.Error()), m.width))
		}
		return ""
	case m.failed:
		return styles.DangerText.Render(truncate(singleLine(m.notice), m.width))
	default:
		return styles.MutedText.Render(truncate(singleLine(m.notice), m.width))
	}
}

// renderFooter renders the key hints for the current mode.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var hints string
	if m.mode == modeBrowse {
		hints = m.help.ShortHelpView(m.keys.ShortHelp())
	} else {
		hints = m.help.ShortHelpView(m.keys.editingHelp())
	}
	return styles.Footer.Width(m.width).Render(strings.TrimSpace(hints))
}
