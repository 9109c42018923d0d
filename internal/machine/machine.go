// Package machine holds the pure transition function behind an editable value.
package machine

// Status is the lifecycle phase of an editable value.
type Status string

const (
	// Presenting means no draft exists; the source value is authoritative.
	Presenting Status = "PRESENTING"
	// Editing means a local draft exists and is authoritative.
	Editing Status = "EDITING"
	// Committing means the draft is locked while a commit is in flight.
	Committing Status = "COMMITTING"
)

// Statuses lists every status in display order.
var Statuses = []Status{Presenting, Editing, Committing}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case Presenting, Editing, Committing:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// Action is an input to Transition. Actions are never persisted.
type Action string

const (
	Start   Action = "START"
	Change  Action = "CHANGE"
	Cancel  Action = "CANCEL"
	Commit  Action = "COMMIT"
	Success Action = "SUCCESS"
	Fail    Action = "FAIL"
)

func (a Action) String() string {
	return string(a)
}

// State is the status plus the draft value. Value is only meaningful when
// Status is Editing or Committing; while Presenting it holds the zero value.
type State[T any] struct {
	Status Status
	Value  T
}

// Initial returns the state every controller starts in.
func Initial[T any]() State[T] {
	return State[T]{Status: Presenting}
}

// Transition computes the next state. It is total: any action that is not
// defined for the current status returns the current state unchanged.
func Transition[T any](current State[T], action Action, payload T) State[T] {
	switch current.Status {
	case Presenting:
		switch action {
		case Start, Change:
			return State[T]{Status: Editing, Value: payload}
		case Commit:
			return State[T]{Status: Committing, Value: payload}
		}

	case Editing:
		switch action {
		case Change:
			return State[T]{Status: Editing, Value: payload}
		case Cancel:
			return Initial[T]()
		case Commit:
			return State[T]{Status: Committing, Value: current.Value}
		}

	case Committing:
		// Locked until the in-flight commit settles.
		switch action {
		case Fail:
			return State[T]{Status: Editing, Value: current.Value}
		case Success:
			return Initial[T]()
		}
	}

	return current
}
