package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/quill/internal/config"
	"github.com/five82/quill/internal/document"
	"github.com/five82/quill/internal/logging"
	"github.com/five82/quill/internal/prefs"
	"github.com/five82/quill/internal/ui"
)

// Options configure the quill application.
type Options struct {
	ConfigPath   string
	DocumentPath string        // overrides the configured document
	PrefsPath    string        // empty uses default ~/.config/quill/prefs.toml
	PollEvery    time.Duration // zero uses the configured interval
	EnvFiles     []string      // .env files loaded before the config
}

// Run boots the quill TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if err := config.LoadDotenv(opts.EnvFiles...); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.DocumentPath != "" {
		cfg.DocumentPath = opts.DocumentPath
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}

	logger, closer, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	userPrefs := prefs.Load(opts.PrefsPath)

	store := document.NewStore(cfg.DocumentPath)
	if err := store.Reload(); err != nil {
		// Keep going with an empty document; the header shows the error.
		logger.Warn("initial document load failed", slog.Any("error", err))
	}

	logger.Info("quill starting",
		slog.String("document", cfg.DocumentPath),
		slog.Duration("poll_interval", cfg.PollInterval),
		slog.Duration("commit_delay", cfg.CommitDelay),
	)

	g, gctx := errgroup.WithContext(ctx)
	uiCtx, stopPoller := context.WithCancel(gctx)
	defer stopPoller()

	committer := document.NewCommitter(uiCtx, store, cfg.CommitDelay, logger)

	g.Go(func() error {
		return runPoller(uiCtx, store, cfg.PollInterval, logger)
	})
	g.Go(func() error {
		// Quitting the UI ends the poller too.
		defer stopPoller()
		return ui.Run(ui.Options{
			Context:   uiCtx,
			Store:     store,
			Committer: committer,
			Logger:    logger,
			LogPath:   cfg.LogPath,
			PollTick:  cfg.PollInterval,
			Prefs:     userPrefs,
			PrefsPath: opts.PrefsPath,
		})
	})

	err = g.Wait()
	logger.Info("quill stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
