package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/sigmon/config"
	"github.com/alejandrodnm/sigmon/internal/adapters/metatrader"
	"github.com/alejandrodnm/sigmon/internal/adapters/notify"
	"github.com/alejandrodnm/sigmon/internal/adapters/storage"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	feedPath := flag.String("feed", "var/signals.jsonl", "path to the JSONL signal feed")
	history := flag.Bool("history", false, "evaluate the feed against historical bars and exit")
	table := flag.Bool("table", false, "print the full outcome table in summaries")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("sigmon starting",
		"config", *configPath,
		"feed", *feedPath,
		"history", *history,
		"horizon", cfg.Horizon(),
		"poll_interval", cfg.PollInterval(),
	)

	client := metatrader.NewClient(cfg.Gateway.BaseURL)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(*table || *history)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *history {
		if err := runHistory(ctx, cfg, client, store, notifier, *feedPath); err != nil {
			slog.Error("history evaluation failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := runLive(ctx, cfg, client, store, notifier, *feedPath); err != nil {
		slog.Error("live run exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("sigmon stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
