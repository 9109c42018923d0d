// Package app provides the orchestration layer for quill.
//
// # Overview
//
// This package wires together configuration, logging, the document store,
// the commit pipeline and the UI. It is the composition root where all
// dependencies are initialized and connected.
//
// # Architecture
//
//  1. Load .env files, then ~/.config/quill/config.toml plus QUILL_* overrides
//  2. Open the log file through internal/logging
//  3. Load UI preferences (theme, activity pane)
//  4. Create the document.Store and read the document once
//  5. Build the document.Committer that backs every field's commit
//  6. Run the poller and the TUI in one errgroup and block until either ends
//
// # Components
//
//   - app.go: Run and the errgroup lifecycle
//   - poller.go: Background loop that reloads the document from disk
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Config file + environment
//	       ├─────> logging.OpenFile()     slog to the log file
//	       ├─────> document.NewStore()    Shared document container
//	       ├─────> document.NewCommitter  Commit callbacks for controllers
//	       ├─────> runPoller()            Reload loop (errgroup)
//	       └─────> ui.Run()               TUI (errgroup, blocks)
//
// # Error Handling
//
// Reload failures never stop the poller. The store keeps the last good
// document and counts consecutive failures; the poller doubles its interval
// per failure up to 30s and the UI marks the data stale after two failures.
//
// When the UI exits it cancels the shared context, which stops the poller
// and aborts any commit still waiting on its delay. context.Canceled from
// that shutdown is not reported as an error.
package app
