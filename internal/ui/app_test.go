package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quill/internal/document"
	"github.com/five82/quill/internal/future"
	"github.com/five82/quill/internal/machine"
	"github.com/five82/quill/internal/prefs"
)

type harness struct {
	store     *document.Store
	prefsPath string
}

func newTestModel(t *testing.T, fields map[string]string, delay time.Duration) (Model, harness) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "document.toml")
	if len(fields) > 0 {
		if err := document.Save(path, document.Document{Fields: fields}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	store := document.NewStore(path)
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := harness{store: store, prefsPath: filepath.Join(dir, "prefs.toml")}
	m := New(Options{
		Context:   ctx,
		Store:     store,
		Committer: document.NewCommitter(ctx, store, delay, nil),
		PrefsPath: h.prefsPath,
	})
	t.Cleanup(m.rows.disposeAll)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, snapshotMsg(store.Snapshot()))
	return m, h
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

// settle runs a commit command and feeds the result back into the model.
func settle(t *testing.T, m Model, cmd tea.Cmd) (Model, commitSettledMsg) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a commit command")
	}
	msg, ok := cmd().(commitSettledMsg)
	if !ok {
		t.Fatalf("command produced %T, want commitSettledMsg", msg)
	}
	m, _ = update(t, m, msg)
	return m, msg
}

func TestModel_EditAndCommit(t *testing.T) {
	m, h := newTestModel(t, map[string]string{"email": "a@b"}, 0)
	row := m.rows.at(0)

	m, _ = update(t, m, enterKey)
	if m.mode != modeEdit || m.editing != "email" {
		t.Fatalf("mode = %v editing = %q, want edit on email", m.mode, m.editing)
	}
	if got := m.input.Value(); got != "a@b" {
		t.Fatalf("input = %q, want source value", got)
	}

	m, _ = update(t, m, runes("x"))
	if got := row.ctrl.Snapshot(); got.Status != machine.Editing || got.Value != "a@bx" {
		t.Fatalf("controller = %+v, want Editing a@bx", got)
	}

	m, cmd := update(t, m, enterKey)
	if m.mode != modeBrowse {
		t.Fatalf("mode = %v, want browse after commit", m.mode)
	}
	m, msg := settle(t, m, cmd)
	if msg.err != nil {
		t.Fatalf("commit err = %v", msg.err)
	}
	if v, _ := h.store.Field("email"); v != "a@bx" {
		t.Fatalf("store email = %q, want a@bx", v)
	}
	if row.status() != machine.Presenting {
		t.Fatalf("status = %v, want Presenting", row.status())
	}
	if !strings.Contains(m.notice, "saved email") {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestModel_CancelDiscardsDraft(t *testing.T) {
	m, h := newTestModel(t, map[string]string{"email": "a@b"}, 0)
	row := m.rows.at(0)

	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, runes("zzz"))
	m, _ = update(t, m, escKey)

	if m.mode != modeBrowse {
		t.Fatalf("mode = %v, want browse", m.mode)
	}
	if got := row.ctrl.Snapshot(); got.Status != machine.Presenting || got.Value != "a@b" {
		t.Fatalf("controller = %+v, want Presenting a@b", got)
	}
	if v, _ := h.store.Field("email"); v != "a@b" {
		t.Fatalf("store email = %q, want unchanged", v)
	}
}

func TestModel_FailedCommitReopensDraft(t *testing.T) {
	m, h := newTestModel(t, map[string]string{"email": "a@b"}, 0)
	row := m.rows.at(0)

	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, runes("!"))

	// Someone else removes the field before the commit lands.
	if _, err := h.store.Apply(document.MessageDelete, "email", ""); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	m, cmd := update(t, m, enterKey)
	m, msg := settle(t, m, cmd)
	if !errors.Is(msg.err, document.ErrFieldNotFound) {
		t.Fatalf("commit err = %v, want ErrFieldNotFound", msg.err)
	}
	if row.status() != machine.Editing {
		t.Fatalf("status = %v, want Editing", row.status())
	}
	if m.mode != modeEdit || m.input.Value() != "a@b!" {
		t.Fatalf("editor mode=%v value=%q, want reopened on draft", m.mode, m.input.Value())
	}
	if !m.failed || row.lastErr == nil {
		t.Fatalf("failure not surfaced: failed=%v lastErr=%v", m.failed, row.lastErr)
	}
}

func TestModel_NewFieldCommitsCreate(t *testing.T) {
	m, h := newTestModel(t, nil, 0)

	m, _ = update(t, m, runes("n"))
	if m.mode != modeName {
		t.Fatalf("mode = %v, want name prompt", m.mode)
	}
	m, _ = update(t, m, runes("phone"))
	m, _ = update(t, m, enterKey)
	if m.mode != modeEdit || m.editing != "phone" {
		t.Fatalf("mode = %v editing = %q, want edit on phone", m.mode, m.editing)
	}
	row, _ := m.rows.find("phone")
	if row == nil || !row.draft {
		t.Fatalf("expected draft row for phone")
	}

	m, _ = update(t, m, runes("555"))
	m, cmd := update(t, m, enterKey)
	m, msg := settle(t, m, cmd)
	if msg.err != nil {
		t.Fatalf("commit err = %v", msg.err)
	}
	if v, ok := h.store.Field("phone"); !ok || v != "555" {
		t.Fatalf("store phone = %q/%v, want 555", v, ok)
	}

	m, _ = update(t, m, snapshotMsg(h.store.Snapshot()))
	if row.draft {
		t.Fatalf("row should stop being a draft once the field exists")
	}
	if m.rows.len() != 1 {
		t.Fatalf("rows = %d, want 1", m.rows.len())
	}
}

func TestModel_DraftRowSavesAfterFieldCreatedElsewhere(t *testing.T) {
	m, h := newTestModel(t, nil, 0)

	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, runes("phone"))
	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, runes("555"))

	if _, err := h.store.Apply(document.MessageCreate, "phone", "000"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	m, _ = update(t, m, snapshotMsg(h.store.Snapshot()))

	row, _ := m.rows.find("phone")
	if row == nil || row.draft {
		t.Fatalf("row should stop being a draft once the field exists")
	}
	if m.mode != modeEdit || row.status() != machine.Editing {
		t.Fatalf("mode = %v status = %v, want edit kept", m.mode, row.status())
	}

	m, cmd := update(t, m, enterKey)
	m, msg := settle(t, m, cmd)
	if msg.err != nil {
		t.Fatalf("commit err = %v", msg.err)
	}
	if v, _ := h.store.Field("phone"); v != "555" {
		t.Fatalf("store phone = %q, want 555", v)
	}
	if m.rows.len() != 1 {
		t.Fatalf("rows = %d, want 1", m.rows.len())
	}
}

func TestModel_NewFieldRejectsDuplicateName(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"email": "a@b"}, 0)

	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, runes("email"))
	m, _ = update(t, m, enterKey)
	if m.mode != modeName || !m.failed {
		t.Fatalf("mode = %v failed = %v, want prompt kept with error", m.mode, m.failed)
	}
	if m.rows.len() != 1 {
		t.Fatalf("rows = %d, want 1", m.rows.len())
	}
}

func TestModel_CancelDraftRowRemovesIt(t *testing.T) {
	m, _ := newTestModel(t, nil, 0)

	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, runes("tmp"))
	m, _ = update(t, m, enterKey)
	row, _ := m.rows.find("tmp")

	m, _ = update(t, m, escKey)
	if m.rows.len() != 0 {
		t.Fatalf("rows = %d, want 0", m.rows.len())
	}
	if !row.ctrl.Disposed() {
		t.Fatalf("removed row should be disposed")
	}
}

func TestModel_DeleteField(t *testing.T) {
	m, h := newTestModel(t, map[string]string{"a": "1", "b": "2"}, 0)
	m, _ = update(t, m, runes("j"))
	row := m.rows.at(m.selectedRow)
	if row.name != "b" {
		t.Fatalf("selected %q, want b", row.name)
	}

	m, cmd := update(t, m, runes("d"))
	m, msg := settle(t, m, cmd)
	if msg.err != nil {
		t.Fatalf("delete err = %v", msg.err)
	}
	if _, ok := h.store.Field("b"); ok {
		t.Fatalf("field b still present")
	}

	m, _ = update(t, m, snapshotMsg(h.store.Snapshot()))
	if m.rows.len() != 1 || m.selectedRow != 0 {
		t.Fatalf("rows = %d selected = %d, want 1/0", m.rows.len(), m.selectedRow)
	}
	if !row.ctrl.Disposed() {
		t.Fatalf("controller of deleted field should be disposed")
	}
}

func TestModel_ReconcileKeepsRowsWithDrafts(t *testing.T) {
	m, h := newTestModel(t, map[string]string{"email": "a@b"}, 0)

	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, runes("?"))
	if _, err := h.store.Apply(document.MessageDelete, "email", ""); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	m, _ = update(t, m, snapshotMsg(h.store.Snapshot()))
	if m.rows.len() != 1 || m.mode != modeEdit {
		t.Fatalf("rows = %d mode = %v, want editing row kept", m.rows.len(), m.mode)
	}
}

func TestModel_ReconcileAddsExternalFields(t *testing.T) {
	m, h := newTestModel(t, map[string]string{"a": "1"}, 0)
	if _, err := h.store.Apply(document.MessageCreate, "b", "2"); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	m, _ = update(t, m, snapshotMsg(h.store.Snapshot()))
	row, _ := m.rows.find("b")
	if row == nil || row.ctrl.Value() != "2" {
		t.Fatalf("expected row for b presenting 2")
	}
}

func TestModel_CommitWhileCommittingIsRefused(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"email": "a@b"}, time.Hour)
	row := m.rows.at(0)

	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, enterKey)
	if row.status() != machine.Committing {
		t.Fatalf("status = %v, want Committing", row.status())
	}

	m, _ = update(t, m, enterKey)
	if m.mode != modeBrowse || !m.failed {
		t.Fatalf("mode = %v failed = %v, want refusal notice", m.mode, m.failed)
	}
}

func TestModel_QuitDisposesPendingCommits(t *testing.T) {
	m, h := newTestModel(t, map[string]string{"email": "a@b"}, time.Hour)
	row := m.rows.at(0)

	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, runes("x"))
	m, commit := update(t, m, enterKey)

	m, quit := update(t, m, runes("q"))
	if _, ok := quit().(tea.QuitMsg); !ok {
		t.Fatalf("q should quit")
	}
	if !row.ctrl.Disposed() {
		t.Fatalf("controller should be disposed on quit")
	}

	_, msg := settle(t, m, commit)
	if !errors.Is(msg.err, future.ErrCanceled) {
		t.Fatalf("commit err = %v, want ErrCanceled", msg.err)
	}
	if row.status() != machine.Committing {
		t.Fatalf("status = %v, want frozen at Committing", row.status())
	}
	if v, _ := h.store.Field("email"); v != "a@b" {
		t.Fatalf("store email = %q, want unchanged", v)
	}
}

func TestModel_ShutdownWhileCommittingIsNotAFailure(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"email": "a@b"}, time.Hour)
	row := m.rows.at(0)

	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, runes("!"))
	m, cmd := update(t, m, enterKey)
	if cmd == nil {
		t.Fatalf("expected a commit command")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	msg, ok := commitCmd(ctx, row, future.New[string]())().(commitSettledMsg)
	if !ok || !errors.Is(msg.err, context.Canceled) {
		t.Fatalf("settled msg = %+v, want context.Canceled", msg)
	}

	m, _ = update(t, m, msg)
	if m.mode != modeBrowse || m.failed || row.lastErr != nil {
		t.Fatalf("mode = %v failed = %v lastErr = %v, want shutdown ignored", m.mode, m.failed, row.lastErr)
	}
}

func TestModel_CtrlCQuitsWhileEditing(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"email": "a@b"}, 0)
	m, _ = update(t, m, enterKey)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c should quit while editing")
	}
}

func TestModel_TypingQDoesNotQuitWhileEditing(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"email": ""}, 0)
	m, _ = update(t, m, enterKey)
	m, _ = update(t, m, runes("q"))
	if m.input.Value() != "q" || m.rows.at(0).ctrl.Disposed() {
		t.Fatalf("q should be typed into the draft")
	}
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	m, h := newTestModel(t, nil, 0)

	m, _ = update(t, m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if got := prefs.Load(h.prefsPath); got.Theme != "Kanagawa" || !got.ShowActivity {
		t.Fatalf("saved prefs = %#v", got)
	}

	m, _ = update(t, m, runes("a"))
	if m.showActivity {
		t.Fatalf("activity pane should be hidden")
	}
	if got := prefs.Load(h.prefsPath); got.ShowActivity {
		t.Fatalf("saved prefs = %#v, want activity hidden", got)
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"email": "a@b"}, 0)

	view := m.View()
	for _, want := range []string{"quill", "email", "a@b", "presenting"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = update(t, m, enterKey)
	if view := m.View(); !strings.Contains(view, "editing email") {
		t.Fatalf("view missing editor:\n%s", view)
	}

	m, _ = update(t, m, escKey)
	m, _ = update(t, m, runes("?"))
	if view := m.View(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown:\n%s", view)
	}
}
