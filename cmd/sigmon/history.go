package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/sigmon/config"
	"github.com/alejandrodnm/sigmon/internal/adapters/feed"
	"github.com/alejandrodnm/sigmon/internal/adapters/metatrader"
	"github.com/alejandrodnm/sigmon/internal/adapters/notify"
	"github.com/alejandrodnm/sigmon/internal/adapters/storage"
	"github.com/alejandrodnm/sigmon/internal/domain"
	"github.com/alejandrodnm/sigmon/internal/evaluator"
)

// runHistory evalúa todas las señales del feed contra el histórico de
// velas del bróker, persiste los veredictos y imprime el resumen.
func runHistory(
	ctx context.Context,
	cfg *config.Config,
	client *metatrader.Client,
	store *storage.SQLiteStorage,
	notifier *notify.Console,
	feedPath string,
) error {
	signals, err := feed.ReadFile(feedPath)
	if err != nil {
		return err
	}
	slog.Info("loaded signal feed", "signals", len(signals), "path", feedPath)

	eval := evaluator.New(client, client, evaluator.Config{
		Horizon:  cfg.Horizon(),
		Interval: domain.BarInterval(cfg.Evaluator.BarInterval),
		Entry:    evaluator.EntryConfig{PriceTolerance: cfg.Evaluator.EntryTolerance},
	})

	evaluated := 0
	for _, sig := range signals {
		outcome, err := eval.EvaluateSignal(ctx, sig)
		if err != nil {
			slog.Warn("skipping signal", "message_id", sig.MessageID, "err", err)
			continue
		}
		if err := store.SaveOutcome(ctx, outcome); err != nil {
			slog.Error("failed to persist outcome", "message_id", sig.MessageID, "err", err)
		}
		evaluated++
	}

	now := time.Now().UTC()
	outcomes, err := store.GetOutcomes(ctx, now.Add(-cfg.Horizon()-time.Hour), now.Add(time.Hour))
	if err != nil {
		return err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	if err := notifier.NotifySummary(ctx, outcomes, stats); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	slog.Info("history evaluation complete", "evaluated", evaluated, "skipped", len(signals)-evaluated)
	return nil
}
