// Package editable drives a single value that is normally presented from an
// external source, can be edited as a local draft, and is committed back to
// the external system through a possibly asynchronous callback.
//
// # Overview
//
// A Controller wraps the pure transition function from package machine and
// adds the side of the story that machine cannot own: reading the source
// value, invoking the cancel and commit callbacks, and tracking the one
// commit that may be in flight.
//
//	PRESENTING ──Start/Change──→ EDITING ──Commit──→ COMMITTING
//	  │   ▲                        │   ▲                  │   │
//	  │   └─────────Cancel─────────┘   └───────FAIL───────┘   │
//	  │   ▲                                                   │
//	  │   └──────────────────────SUCCESS──────────────────────┘
//	  └────────────────────────Commit───────────────────────→ COMMITTING
//
// # Effective Value
//
// While Presenting the controller stores no value; Value returns whatever
// the Source reports at that moment. While Editing or Committing the stored
// draft is authoritative and the source is ignored, so a draft survives the
// source changing underneath it.
//
// # Commit Flow
//
// Commit dispatches COMMIT first, which locks the value, and only then calls
// OnCommit. The callback therefore always sees a value the caller can no
// longer mutate. Three outcomes are possible:
//
//   - OnCommit is nil or returns (nil, nil): SUCCESS is applied immediately.
//   - OnCommit returns a non-nil err: FAIL is applied immediately and the
//     draft is kept for another attempt. A future returned alongside the
//     error is never awaited.
//   - OnCommit returns a future and no error: it is wrapped with future.MakeCancelable and
//     remembered. When it settles, SUCCESS or FAIL is applied unless the
//     wrapper was canceled.
//
// Calling Commit while Committing panics with ErrCommitInProgress. Concurrent
// commits are a bug in the caller, not a runtime condition.
//
// # Disposal
//
// Dispose cancels the outstanding commit. The cancellation flag is checked
// under the controller lock right before a settlement would be applied, and
// Dispose flips it under the same lock, so no status or value changes once
// Dispose has returned regardless of how or when the commit settles.
//
// # Concurrency Model
//
// Operations are meant to be called from a single goroutine, typically a UI
// event loop. Settlement of asynchronous commits arrives on another
// goroutine, which is why state is guarded by a mutex. Callbacks (Source,
// OnCancel, OnCommit, OnTransition) are never invoked with the mutex held,
// so they may call back into the controller.
//
// # Usage
//
//	c := editable.New(editable.Options[string, string]{
//		Source:   editable.SourceFunc[string](func() string { return stored }),
//		OnCommit: save,
//	})
//	defer c.Dispose()
//
//	c.Start()
//	c.Change("new text")
//	if _, err := c.Commit("UPDATE").Wait(ctx); err != nil {
//		// c.Status() is EDITING again with the draft intact
//	}
package editable
