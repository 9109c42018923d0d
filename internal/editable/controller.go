package editable

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/five82/quill/internal/future"
	"github.com/five82/quill/internal/machine"
)

// Source supplies the externally owned value. It is read on every
// evaluation, never cached.
type Source[T any] interface {
	Value() T
}

// SourceFunc adapts a plain function to Source.
type SourceFunc[T any] func() T

// Value implements Source.
func (f SourceFunc[T]) Value() T {
	return f()
}

// CommitFunc hands a locked value to the external system. A non-nil err is a
// synchronous failure and any returned future is ignored. A nil future with a
// nil err is a synchronous success.
type CommitFunc[T, M any] func(message M, value T) (*future.Future[T], error)

// CancelFunc is told about a draft that is being discarded.
type CancelFunc[T any] func(draft T)

// Options configure a Controller.
type Options[T, M any] struct {
	Source       Source[T]
	OnCancel     CancelFunc[T]
	OnCommit     CommitFunc[T, M]
	OnTransition func(from, to machine.Status)
	Logger       *slog.Logger // nil discards
}

// Snapshot is the status together with the effective value.
type Snapshot[T any] struct {
	Status machine.Status
	Value  T
}

// Controller owns the state of one editable value and at most one
// outstanding commit.
type Controller[T, M any] struct {
	id           string
	source       Source[T]
	onCancel     CancelFunc[T]
	onCommit     CommitFunc[T, M]
	onTransition func(from, to machine.Status)
	logger       *slog.Logger

	mu       sync.Mutex
	state    machine.State[T]
	pending  *future.Cancelable[T]
	disposed bool
}

// statusChange records one application of the transition function so
// observers can be notified after the lock is released.
type statusChange struct {
	action   machine.Action
	from, to machine.Status
}

// New builds a controller in the Presenting state. It panics when
// opts.Source is nil.
func New[T, M any](opts Options[T, M]) *Controller[T, M] {
	if opts.Source == nil {
		panic(ErrNilSource)
	}

	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Controller[T, M]{
		id:           id,
		source:       opts.Source,
		onCancel:     opts.OnCancel,
		onCommit:     opts.OnCommit,
		onTransition: opts.OnTransition,
		logger:       logger.With(slog.String("controller", id)),
		state:        machine.Initial[T](),
	}
}

// ID identifies the controller in logs.
func (c *Controller[T, M]) ID() string {
	return c.id
}

// Start begins editing from the current source value. It does nothing when
// a draft already exists or a commit is in flight.
func (c *Controller[T, M]) Start() {
	src := c.source.Value()
	c.dispatch(machine.Start, src)
}

// Change replaces the draft. The latest value wins.
func (c *Controller[T, M]) Change(next T) {
	c.dispatch(machine.Change, next)
}

// Cancel discards the draft and returns to Presenting. OnCancel only fires
// when leaving Editing.
func (c *Controller[T, M]) Cancel() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	current := c.state
	c.mu.Unlock()

	if current.Status == machine.Editing && c.onCancel != nil {
		c.onCancel(current.Value)
	}

	var zero T
	c.dispatch(machine.Cancel, zero)
}

// Commit locks the effective value and hands it to OnCommit together with
// message. The returned future settles after the resulting transition has
// been applied: with the committed value on success, with the failure
// reason when the commit failed, or with future.ErrCanceled when the
// controller was disposed first.
//
// Commit panics with ErrCommitInProgress when called while Committing.
func (c *Controller[T, M]) Commit(message M) *future.Future[T] {
	src := c.source.Value()

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return future.Rejected[T](ErrDisposed)
	}
	if c.state.Status == machine.Committing {
		c.mu.Unlock()
		panic(ErrCommitInProgress)
	}
	value := c.effective(src)
	change := c.apply(machine.Commit, value)
	c.mu.Unlock()
	c.notify(change)

	if c.onCommit == nil {
		c.finish(nil, nil)
		return future.Resolved(value)
	}

	pending, err := c.onCommit(message, value)
	if pending == nil || err != nil {
		c.finish(nil, err)
		if err != nil {
			return future.Rejected[T](err)
		}
		return future.Resolved(value)
	}

	op := future.MakeCancelable(pending)
	c.mu.Lock()
	if c.disposed {
		op.Cancel()
	} else {
		c.pending = op
	}
	c.mu.Unlock()

	return future.Then[T, T](op, func(v T, err error) (T, error) {
		c.finish(op, err)
		return v, err
	})
}

// Dispose cancels the outstanding commit, if any. Nothing mutates the
// controller afterwards.
func (c *Controller[T, M]) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.disposed = true
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
		c.logger.Debug("canceled in-flight commit on dispose")
	}
}

// Disposed reports whether Dispose was called.
func (c *Controller[T, M]) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Status returns the current status.
func (c *Controller[T, M]) Status() machine.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Status
}

// Value returns the effective value: the source value while Presenting,
// the draft otherwise.
func (c *Controller[T, M]) Value() T {
	return c.Snapshot().Value
}

// Snapshot returns status and effective value read together.
func (c *Controller[T, M]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	current := c.state
	c.mu.Unlock()

	if current.Status == machine.Presenting {
		return Snapshot[T]{Status: current.Status, Value: c.source.Value()}
	}
	return Snapshot[T]{Status: current.Status, Value: current.Value}
}

// finish applies the outcome of a commit. op is nil for synchronous commits.
func (c *Controller[T, M]) finish(op *future.Cancelable[T], err error) {
	c.mu.Lock()
	if op != nil && c.pending == op {
		c.pending = nil
	}
	if c.disposed || (op != nil && (op.Canceled() || errors.Is(err, future.ErrCanceled))) {
		c.mu.Unlock()
		c.logger.Debug("discarding commit result", slog.Any("error", err))
		return
	}

	action := machine.Success
	if err != nil {
		action = machine.Fail
	}
	var zero T
	change := c.apply(action, zero)
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("commit failed", slog.Any("error", err))
	}
	c.notify(change)
}

func (c *Controller[T, M]) dispatch(action machine.Action, payload T) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	change := c.apply(action, payload)
	c.mu.Unlock()
	c.notify(change)
}

// apply must be called with c.mu held.
func (c *Controller[T, M]) apply(action machine.Action, payload T) statusChange {
	from := c.state.Status
	c.state = machine.Transition(c.state, action, payload)
	return statusChange{action: action, from: from, to: c.state.Status}
}

// effective must be called with c.mu held.
func (c *Controller[T, M]) effective(src T) T {
	if c.state.Status == machine.Presenting {
		return src
	}
	return c.state.Value
}

func (c *Controller[T, M]) notify(change statusChange) {
	if change.from == change.to {
		return
	}
	c.logger.Debug("status changed",
		slog.String("action", change.action.String()),
		slog.String("from", change.from.String()),
		slog.String("to", change.to.String()),
	)
	if c.onTransition != nil {
		c.onTransition(change.from, change.to)
	}
}
