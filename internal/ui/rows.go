package ui

import (
	"log/slog"

	"github.com/five82/quill/internal/document"
	"github.com/five82/quill/internal/editable"
	"github.com/five82/quill/internal/machine"
)

type fieldController = editable.Controller[string, document.Message]

// fieldRow is one document field and the controller that edits it.
type fieldRow struct {
	name string
	ctrl *fieldController

	// draft rows are not in the document yet and commit with CREATE.
	draft bool

	// lastErr is the reason the most recent commit failed, cleared on success.
	lastErr error
}

func (r *fieldRow) commitMessage() document.Message {
	if r.draft {
		return document.MessageCreate
	}
	return document.MessageUpdate
}

func (r *fieldRow) status() machine.Status {
	return r.ctrl.Status()
}

// rowSet is shared by every copy of the Model so controllers are disposed
// exactly once, however the program exits.
type rowSet struct {
	rows []*fieldRow
}

func (s *rowSet) len() int {
	return len(s.rows)
}

func (s *rowSet) at(i int) *fieldRow {
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}

func (s *rowSet) find(name string) (*fieldRow, int) {
	for i, r := range s.rows {
		if r.name == name {
			return r, i
		}
	}
	return nil, -1
}

func (s *rowSet) remove(name string) {
	for i, r := range s.rows {
		if r.name == name {
			r.ctrl.Dispose()
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return
		}
	}
}

// disposeAll tears down every controller, cancelling commits in flight.
func (s *rowSet) disposeAll() {
	for _, r := range s.rows {
		r.ctrl.Dispose()
	}
}

// reconcile brings the rows in line with the document field names. Rows for
// new fields are appended. Rows whose field disappeared are dropped unless
// they hold a draft or a pending commit. Draft rows whose field now exists
// become ordinary rows, even mid-edit.
func (s *rowSet) reconcile(names []string, newRow func(name string, draft bool) *fieldRow) {
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}

	kept := s.rows[:0]
	for _, r := range s.rows {
		switch {
		case present[r.name]:
			// Whoever created the field, the next commit must be an UPDATE.
			r.draft = false
			kept = append(kept, r)
		case r.draft || r.status() != machine.Presenting:
			kept = append(kept, r)
		default:
			r.ctrl.Dispose()
		}
	}
	s.rows = kept

	for _, name := range names {
		if r, _ := s.find(name); r == nil {
			s.rows = append(s.rows, newRow(name, false))
		}
	}
}

// newFieldRow builds the controller for one field. The store is the source
// so the presented value always tracks the latest reload.
func newFieldRow(store *document.Store, committer *document.Committer, logger *slog.Logger, name string, draft bool) *fieldRow {
	fieldLogger := logger.With(slog.String("field", name))
	ctrl := editable.New(editable.Options[string, document.Message]{
		Source: editable.SourceFunc[string](func() string {
			v, _ := store.Field(name)
			return v
		}),
		OnCommit: committer.For(name),
		OnCancel: func(draft string) {
			fieldLogger.Debug("draft discarded", slog.Int("length", len(draft)))
		},
		Logger: fieldLogger,
	})
	return &fieldRow{name: name, ctrl: ctrl, draft: draft}
}
