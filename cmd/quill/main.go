package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/quill/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	documentPath := flag.String("document", "", "document to edit (optional, overrides config)")
	prefsPath := flag.String("prefs", "", "override preferences path (optional)")
	poll := flag.Duration("poll", 0, "reload interval (optional, defaults to 2s)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:   *configPath,
		DocumentPath: *documentPath,
		PrefsPath:    *prefsPath,
		EnvFiles:     []string{".env"},
	}
	if d := *poll; d > 0 {
		opts.PollEvery = d
	}
	if opts.PollEvery > 0 && opts.PollEvery < 100*time.Millisecond {
		fmt.Fprintln(os.Stderr, "quill: -poll must be at least 100ms")
		return 2
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "quill: %v\n", err)
		return 1
	}
	return 0
}
