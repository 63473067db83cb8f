// Command whisperkey is a push-to-talk dictation daemon. Hold or
// toggle the configured trigger key to record from the microphone; on
// release the audio is transcribed and typed into the focused
// application.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"whisperkey/config"
	"whisperkey/internal/app"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	setupLogging()
	slog.Info("starting whisperkey", "version", version, "commit", commit, "date", date)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config, using defaults", "error", err)
		cfg = config.Default()
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("init app", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		slog.Error("run", "error", err)
		os.Exit(1)
	}
	slog.Info("shut down cleanly")
}

func setupLogging() {
	level := slog.LevelInfo
	if os.Getenv("WHISPERKEY_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
