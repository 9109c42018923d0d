package future

import (
	"context"
	"sync"
	"sync/atomic"
)

// Cancelable mirrors a source future until Cancel is called. From then on it
// settles with ErrCanceled no matter how the source settles. Only the bridge
// goroutine can settle it.
type Cancelable[R any] struct {
	out *Future[R]

	canceled   atomic.Bool
	cancelOnce sync.Once
	cancelCh   chan struct{}
}

var _ Awaitable[struct{}] = (*Cancelable[struct{}])(nil)

// MakeCancelable wraps src.
func MakeCancelable[R any](src *Future[R]) *Cancelable[R] {
	c := &Cancelable[R]{
		out:      New[R](),
		cancelCh: make(chan struct{}),
	}
	go c.bridge(src)
	return c
}

// bridge is the only place the wrapper settles. The flag is checked after the
// source settles so a late Cancel still wins over an unobserved result.
func (c *Cancelable[R]) bridge(src *Future[R]) {
	select {
	case <-src.Done():
		if c.canceled.Load() {
			c.out.Reject(ErrCanceled)
			return
		}
		c.out.settle(src.value, src.err)
	case <-c.cancelCh:
		c.out.Reject(ErrCanceled)
	}
}

// Cancel flips the canceled flag. It is safe to call more than once and after
// the wrapper has settled.
func (c *Cancelable[R]) Cancel() {
	c.cancelOnce.Do(func() {
		c.canceled.Store(true)
		close(c.cancelCh)
	})
}

// Canceled reports whether Cancel was called.
func (c *Cancelable[R]) Canceled() bool {
	return c.canceled.Load()
}

// Done is closed once the wrapper settles.
func (c *Cancelable[R]) Done() <-chan struct{} {
	return c.out.Done()
}

// Settled reports whether the wrapper has settled, without blocking.
func (c *Cancelable[R]) Settled() bool {
	return c.out.Settled()
}

// Result blocks until the wrapper settles.
func (c *Cancelable[R]) Result() (R, error) {
	return c.out.Result()
}

// Wait blocks until the wrapper settles or ctx is done.
func (c *Cancelable[R]) Wait(ctx context.Context) (R, error) {
	return c.out.Wait(ctx)
}
