package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settleTimeout = time.Second

func TestFuture_SettlesOnce(t *testing.T) {
	f := New[string]()
	assert.False(t, f.Settled())

	assert.True(t, f.Resolve("first"))
	assert.False(t, f.Resolve("second"))
	assert.False(t, f.Reject(errors.New("late")))

	v, err := f.Result()
	require.NoError(t, err)
	assert.Equal(t, "first", v)
	assert.True(t, f.Settled())
}

func TestFuture_RejectNilUsesSentinel(t *testing.T) {
	_, err := Rejected[int](nil).Result()
	assert.ErrorIs(t, err, ErrRejected)
}

func TestFuture_WaitHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New[int]().Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGo(t *testing.T) {
	boom := errors.New("boom")

	ok := Go(context.Background(), func(context.Context) (int, error) { return 3, nil })
	bad := Go(context.Background(), func(context.Context) (int, error) { return 0, boom })

	v, err := ok.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = bad.Wait(waitCtx(t))
	assert.ErrorIs(t, err, boom)
}

func TestThen(t *testing.T) {
	src := New[int]()
	next := Then(src, func(v int, err error) (string, error) {
		if err != nil {
			return "", err
		}
		return "ok", nil
	})
	assert.False(t, next.Settled())

	src.Resolve(1)
	v, err := next.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestCancelable_MirrorsSource(t *testing.T) {
	boom := errors.New("boom")

	resolved := New[string]()
	c := MakeCancelable(resolved)
	resolved.Resolve("value")
	v, err := c.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	rejected := New[string]()
	c = MakeCancelable(rejected)
	rejected.Reject(boom)
	_, err = c.Wait(waitCtx(t))
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Canceled())
}

func TestCancelable_CancelBeforeSettle(t *testing.T) {
	for _, name := range []string{"resolve", "reject"} {
		t.Run(name, func(t *testing.T) {
			src := New[int]()
			c := MakeCancelable(src)
			c.Cancel()

			if name == "resolve" {
				src.Resolve(1)
			} else {
				src.Reject(errors.New("boom"))
			}

			_, err := c.Wait(waitCtx(t))
			assert.ErrorIs(t, err, ErrCanceled)
			assert.True(t, c.Canceled())
		})
	}
}

func TestCancelable_CancelWithoutSourceSettling(t *testing.T) {
	c := MakeCancelable(New[int]())
	c.Cancel()
	c.Cancel()

	_, err := c.Wait(waitCtx(t))
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestCancelable_CancelAfterSettleChangesNothing(t *testing.T) {
	c := MakeCancelable(Resolved(5))
	v, err := c.Wait(waitCtx(t))
	require.NoError(t, err)

	c.Cancel()
	v2, err2 := c.Result()
	assert.Equal(t, v, v2)
	assert.NoError(t, err2)
	assert.True(t, c.Canceled())
}

func TestCancelable_CannotBeSettledByHolder(t *testing.T) {
	src := New[int]()
	c := MakeCancelable(src)

	_, settable := any(c).(interface{ Resolve(int) bool })
	assert.False(t, settable, "holders must not settle the wrapper directly")
	_, settable = any(c).(interface{ Reject(error) bool })
	assert.False(t, settable, "holders must not settle the wrapper directly")

	c.Cancel()
	src.Resolve(1)
	_, err := c.Wait(waitCtx(t))
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestThen_AcceptsCancelable(t *testing.T) {
	src := New[int]()
	c := MakeCancelable(src)
	next := Then[int, int](c, func(v int, err error) (int, error) {
		return v * 2, err
	})

	src.Resolve(21)
	v, err := next.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	t.Cleanup(cancel)
	return ctx
}
