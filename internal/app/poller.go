package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/quill/internal/document"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// reloader is the part of document.Store the poller drives.
type reloader interface {
	Reload() error
	Snapshot() document.Snapshot
}

// runPoller reloads the store at a fixed cadence until ctx is cancelled,
// backing off while the file stays unreadable.
func runPoller(ctx context.Context, store reloader, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		failures := refresh(store, logger)
		timer.Reset(calculateBackoff(failures, interval))
	}
}

// refresh reloads once and returns the number of consecutive failures.
func refresh(store reloader, logger *slog.Logger) int {
	if err := store.Reload(); err != nil {
		failures := store.Snapshot().ConsecutiveFailures
		logger.Warn("document reload failed",
			slog.Any("error", err),
			slog.Int("consecutive_failures", failures),
		)
		return failures
	}
	return 0
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
