// Package future provides a settle-once result type and a cancelable wrapper
// around it.
package future

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrCanceled marks a result whose owner stopped caring about it.
	ErrCanceled = errors.New("future: canceled")

	// ErrRejected replaces a nil rejection reason.
	ErrRejected = errors.New("future: rejected without reason")
)

// Future is a value or error that becomes available exactly once.
type Future[R any] struct {
	done  chan struct{}
	once  sync.Once
	value R
	err   error
}

// New returns an unsettled future.
func New[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// Resolved returns a future already settled with v.
func Resolved[R any](v R) *Future[R] {
	f := New[R]()
	f.Resolve(v)
	return f
}

// Rejected returns a future already settled with err.
func Rejected[R any](err error) *Future[R] {
	f := New[R]()
	f.Reject(err)
	return f
}

// Go runs fn on its own goroutine and settles the returned future with its
// result.
func Go[R any](ctx context.Context, fn func(context.Context) (R, error)) *Future[R] {
	f := New[R]()
	go func() {
		v, err := fn(ctx)
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}

// Awaitable is the read side of a settle-once result.
type Awaitable[R any] interface {
	Done() <-chan struct{}
	Result() (R, error)
}

// Then settles the returned future with fn's result once f settles.
func Then[R, S any](f Awaitable[R], fn func(R, error) (S, error)) *Future[S] {
	next := New[S]()
	go func() {
		v, err := fn(f.Result())
		if err != nil {
			next.Reject(err)
			return
		}
		next.Resolve(v)
	}()
	return next
}

// Resolve settles f with v. It reports false if f was already settled.
func (f *Future[R]) Resolve(v R) bool {
	return f.settle(v, nil)
}

// Reject settles f with err. It reports false if f was already settled.
func (f *Future[R]) Reject(err error) bool {
	if err == nil {
		err = ErrRejected
	}
	var zero R
	return f.settle(zero, err)
}

func (f *Future[R]) settle(v R, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value = v
		f.err = err
		settled = true
		close(f.done)
	})
	return settled
}

// Done is closed once f settles.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether f has settled, without blocking.
func (f *Future[R]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result blocks until f settles.
func (f *Future[R]) Result() (R, error) {
	<-f.done
	return f.value, f.err
}

// Wait blocks until f settles or ctx is done.
func (f *Future[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}
