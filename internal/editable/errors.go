package editable

import "errors"

var (
	// ErrCommitInProgress is the panic value of Commit when a commit is
	// already in flight. Double submission is a caller bug.
	ErrCommitInProgress = errors.New("editable: cannot commit while committing")

	// ErrDisposed is returned through the future of a Commit issued after
	// Dispose.
	ErrDisposed = errors.New("editable: controller disposed")

	// ErrNilSource is the panic value of New when Options.Source is nil.
	ErrNilSource = errors.New("editable: source is required")
)
