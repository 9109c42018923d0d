package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quill/internal/document"
	"github.com/five82/quill/internal/future"
	"github.com/five82/quill/internal/logtail"
	"github.com/five82/quill/internal/machine"
	"github.com/five82/quill/internal/prefs"
)

// inputMode says where key presses go.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeEdit
	modeName
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *document.Store
	Committer *document.Committer
	Logger    *slog.Logger
	LogPath   string
	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *document.Store
	committer *document.Committer
	logger    *slog.Logger
	logPath   string
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme        Theme
	keys         keyMap
	help         help.Model
	width        int
	height       int
	ready        bool
	showHelp     bool
	showActivity bool

	// Data state
	snapshot    document.Snapshot
	lastUpdated time.Time
	rows        *rowSet
	selectedRow int

	// Editing state
	mode    inputMode
	editing string
	input   textinput.Model
	notice  string
	failed  bool

	// Activity pane
	activity []logtail.Entry
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := opts.Prefs
	if p.Theme == "" {
		p = prefs.Default()
	}

	input := textinput.New()
	input.Prompt = ""

	return Model{
		ctx:          ctx,
		store:        opts.Store,
		committer:    opts.Committer,
		logger:       logger,
		logPath:      opts.LogPath,
		prefsPath:    opts.PrefsPath,
		pollTick:     pollTick,
		theme:        GetTheme(p.Theme),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		showActivity: p.ShowActivity,
		rows:         &rowSet{},
		input:        input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		fetchSnapshotCmd(m.store),
	}
	if m.showActivity {
		cmds = append(cmds, readActivityCmd(m.logPath))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = maxInt(10, msg.Width-LayoutNameWidth-12)
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(document.Snapshot(msg))
		return m, nil

	case activityMsg:
		m.activity = msg
		return m, nil

	case commitSettledMsg:
		return m.handleCommitSettled(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey routes keyboard input by mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.mode {
	case modeEdit:
		return m.handleEditKey(msg)
	case modeName:
		return m.handleNameKey(msg)
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleActivity):
		m.showActivity = !m.showActivity
		m.savePrefs()
		if m.showActivity {
			return m, readActivityCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < m.rows.len()-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = maxInt(0, m.rows.len()-1)

	case key.Matches(msg, m.keys.Edit):
		return m.startEditing()

	case key.Matches(msg, m.keys.New):
		m.mode = modeName
		m.notice = ""
		m.input.Placeholder = "field name"
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()
	}

	return m, nil
}

// startEditing puts the selected row into Editing, or resumes a draft that
// survived a failed commit.
func (m Model) startEditing() (tea.Model, tea.Cmd) {
	row := m.rows.at(m.selectedRow)
	if row == nil {
		return m, nil
	}
	if row.status() == machine.Committing {
		m.setNotice(fmt.Sprintf("%s is still committing", row.name), true)
		return m, nil
	}
	row.ctrl.Start()
	return m.openEditor(row)
}

func (m Model) openEditor(row *fieldRow) (tea.Model, tea.Cmd) {
	m.mode = modeEdit
	m.editing = row.name
	m.input.Placeholder = ""
	m.input.SetValue(row.ctrl.Value())
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// handleEditKey feeds keystrokes to the draft. Every change is pushed into
// the controller so its effective value always matches the input.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, _ := m.rows.find(m.editing)
	if row == nil || row.ctrl.Disposed() {
		m.closeEditor()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		row.ctrl.Cancel()
		m.closeEditor()
		if row.draft {
			m.rows.remove(row.name)
			m.clampSelection()
		}
		m.setNotice("edit discarded", false)
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		m.closeEditor()
		m.setNotice(fmt.Sprintf("committing %s...", row.name), false)
		return m, commitCmd(m.ctx, row, row.ctrl.Commit(row.commitMessage()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	row.ctrl.Change(m.input.Value())
	return m, cmd
}

// handleNameKey reads the name of a new field, then opens its editor.
func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeEditor()
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.setNotice(document.ErrEmptyName.Error(), true)
			return m, nil
		}
		if existing, _ := m.rows.find(name); existing != nil {
			m.setNotice(fmt.Sprintf("%s: %s", document.ErrFieldExists, name), true)
			return m, nil
		}
		row := newFieldRow(m.store, m.committer, m.logger, name, true)
		m.rows.rows = append(m.rows.rows, row)
		m.selectedRow = m.rows.len() - 1
		m.notice = ""
		row.ctrl.Start()
		return m.openEditor(row)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// deleteSelected commits a DELETE for the selected row. Draft rows are
// simply dropped since nothing has been written for them.
func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	row := m.rows.at(m.selectedRow)
	if row == nil {
		return m, nil
	}
	if row.draft {
		m.rows.remove(row.name)
		m.clampSelection()
		return m, nil
	}
	if row.status() != machine.Presenting {
		m.setNotice(fmt.Sprintf("%s is busy", row.name), true)
		return m, nil
	}
	m.setNotice(fmt.Sprintf("deleting %s...", row.name), false)
	return m, commitCmd(m.ctx, row, row.ctrl.Commit(document.MessageDelete))
}

// handleCommitSettled reports a finished commit. A failed commit leaves the
// controller in Editing with the draft intact, so the editor reopens on it
// when nothing else is being edited.
func (m Model) handleCommitSettled(msg commitSettledMsg) (tea.Model, tea.Cmd) {
	row, _ := m.rows.find(msg.name)
	if row == nil || row.ctrl.Disposed() {
		return m, nil
	}

	switch {
	case msg.err == nil:
		row.lastErr = nil
		m.setNotice(fmt.Sprintf("saved %s", msg.name), false)
		return m, fetchSnapshotCmd(m.store)

	case errors.Is(msg.err, future.ErrCanceled), errors.Is(msg.err, context.Canceled):
		// Disposed, or the program is shutting down.
		return m, nil

	default:
		row.lastErr = msg.err
		m.setNotice(fmt.Sprintf("%s: %v", msg.name, msg.err), true)
		if m.mode == modeBrowse && row.status() == machine.Editing {
			return m.openEditor(row)
		}
		return m, nil
	}
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{fetchSnapshotCmd(m.store)}
	if m.showActivity {
		cmds = append(cmds, readActivityCmd(m.logPath))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap document.Snapshot) {
	m.snapshot = snap
	m.lastUpdated = time.Now()
	m.rows.reconcile(snap.Document.Names(), func(name string, draft bool) *fieldRow {
		return newFieldRow(m.store, m.committer, m.logger, name, draft)
	})
	m.clampSelection()
	if m.mode == modeEdit {
		if row, _ := m.rows.find(m.editing); row == nil {
			m.closeEditor()
		}
	}
}

func (m *Model) closeEditor() {
	m.mode = modeBrowse
	m.editing = ""
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) clampSelection() {
	if m.selectedRow >= m.rows.len() {
		m.selectedRow = m.rows.len() - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

func (m *Model) setNotice(text string, failed bool) {
	m.notice = text
	m.failed = failed
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, ShowActivity: m.showActivity}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", slog.Any("error", err))
	}
}

// quit disposes every controller before leaving so no commit outlives the UI.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.rows.disposeAll()
	return m, tea.Quit
}

// Messages

type tickMsg time.Time

type snapshotMsg document.Snapshot

type activityMsg []logtail.Entry

type commitSettledMsg struct {
	name  string
	value string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *document.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func readActivityCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, ActivityReadLimit)
		if err != nil {
			return activityMsg{{Level: "ERROR", Message: err.Error()}}
		}
		return activityMsg(logtail.ParseLines(lines))
	}
}

// commitCmd waits for a commit future off the update loop.
func commitCmd(ctx context.Context, row *fieldRow, f *future.Future[string]) tea.Cmd {
	name := row.name
	return func() tea.Msg {
		v, err := f.Wait(ctx)
		return commitSettledMsg{name: name, value: v, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits. Controllers
// are disposed on the way out whichever side ended the program.
func Run(opts Options) error {
	m := New(opts)
	defer m.rows.disposeAll()

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
