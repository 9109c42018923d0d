// Package document is the external system quill edits: a TOML file of named
// text fields, a thread-safe in-memory copy of it, and the commit callback
// that editable controllers hand their drafts to.
//
// # File Format
//
//	revision = "5f0c6c1e-8d8e-4a57-9d0e-5a0b1f7b6f61"
//	updated_at = 2026-10-17T09:30:00Z
//
//	[fields]
//	title = "Quarterly report"
//	owner = "ops"
//
// Every successful commit stamps a fresh revision UUID and writes the whole
// file through a temp file plus rename.
//
// # Architecture
//
// Two writers meet in the Store:
//
//	Poller:                      UI (via Committer):
//	┌────────────────┐           ┌──────────────────────┐
//	│ store.Reload() │           │ controller.Commit()  │
//	│      ↓         │           │      ↓               │
//	│  Load(path)    │           │ committer.For(name)  │
//	│      ↓         │  (mutex)  │      ↓               │
//	│  snapshot ─────┼──────────→│ store.Apply() → Save │
//	└────────────────┘           └──────────────────────┘
//
// Reload keeps the previous document when the file cannot be read or parsed
// and counts consecutive failures, the same way a network poller would treat
// an unreachable daemon. Apply validates the intent against the current
// document before writing:
//
//   - CREATE fails with ErrFieldExists when the name is taken
//   - UPDATE and DELETE fail with ErrFieldNotFound when it is not
//   - anything else fails with ErrUnknownMessage
//
// A rejected commit leaves both the file and the snapshot untouched.
//
// # Synchronous and Asynchronous Commits
//
// Committer.For returns an editable.CommitFunc. With a zero delay it applies
// the intent inline and returns (nil, err), which the controller treats as a
// synchronous commit. With a positive delay it returns a future that applies
// the intent after the delay, which lets the UI show the COMMITTING state and
// exercises cancellation when the UI is closed mid-commit.
//
// # Defensive Copying
//
// Snapshot, Apply and Clone copy the fields map so the UI can hold on to a
// document without racing the poller.
package document
