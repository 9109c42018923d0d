// Package ui provides the terminal interface for quill.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Each field of the document is a row backed
// by its own editable.Controller, whose source is the document.Store and
// whose commit callback comes from the document.Committer. The UI never
// writes the document itself; it only drives controllers.
//
// # Package Structure
//
//   - app.go: Model, Update loop, commands and Run
//   - rows.go: field rows, controller construction and reconciliation
//   - header.go: header, status line and footer
//   - table.go: field rows with status badges
//   - activity.go: editor box and the activity pane fed by logtail
//   - help.go: help overlay built from the key map
//   - theme.go, keys.go, layout.go: styling, bindings and sizes
//
// # Editing Flow
//
//  1. enter on a row calls Start and opens the editor with the source value
//  2. every keystroke calls Change with the input contents
//  3. enter calls Commit; a command waits on the returned future
//  4. esc calls Cancel and discards the draft
//  5. the settled future arrives as commitSettledMsg; a failure reopens the
//     editor on the preserved draft
//
// n asks for a name and creates a draft row that commits with CREATE.
// d commits DELETE for the selected row.
//
// # Reconciliation
//
// Each tick fetches a store snapshot. Rows are added for new fields and
// dropped, with their controller disposed, when the field disappears and the
// row is Presenting. Rows holding a draft or a pending commit survive until
// the user finishes with them.
//
// # Shutdown
//
// Quitting disposes every controller so a commit still in flight can no
// longer change any state. Run does the same when the context ends the
// program.
package ui
