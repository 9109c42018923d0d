package document

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/quill/internal/editable"
	"github.com/five82/quill/internal/future"
)

// Committer applies editable commits to a Store. With a zero Delay commits
// complete synchronously; otherwise they settle on a goroutine after Delay.
type Committer struct {
	ctx    context.Context
	store  *Store
	delay  time.Duration
	logger *slog.Logger
}

// NewCommitter builds a committer. ctx bounds every asynchronous commit.
func NewCommitter(ctx context.Context, store *Store, delay time.Duration, logger *slog.Logger) *Committer {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Committer{ctx: ctx, store: store, delay: delay, logger: logger}
}

// For returns the commit callback for the field called name.
func (c *Committer) For(name string) editable.CommitFunc[string, Message] {
	return func(message Message, value string) (*future.Future[string], error) {
		if c.delay <= 0 {
			return nil, c.apply(message, name, value)
		}
		return future.Go(c.ctx, func(ctx context.Context) (string, error) {
			timer := time.NewTimer(c.delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-timer.C:
			}
			if err := c.apply(message, name, value); err != nil {
				return "", err
			}
			return value, nil
		}), nil
	}
}

func (c *Committer) apply(message Message, name, value string) error {
	doc, err := c.store.Apply(message, name, value)
	if err != nil {
		c.logger.Warn("commit rejected",
			slog.String("field", name),
			slog.String("message", string(message)),
			slog.Any("error", err),
		)
		return err
	}
	c.logger.Info("commit applied",
		slog.String("field", name),
		slog.String("message", string(message)),
		slog.String("revision", doc.Revision),
	)
	return nil
}
