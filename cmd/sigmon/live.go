package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/sigmon/config"
	"github.com/alejandrodnm/sigmon/internal/adapters/feed"
	"github.com/alejandrodnm/sigmon/internal/adapters/metatrader"
	"github.com/alejandrodnm/sigmon/internal/adapters/notify"
	"github.com/alejandrodnm/sigmon/internal/adapters/storage"
	"github.com/alejandrodnm/sigmon/internal/domain"
	"github.com/alejandrodnm/sigmon/internal/evaluator"
	"github.com/alejandrodnm/sigmon/internal/metrics"
	"github.com/alejandrodnm/sigmon/internal/monitor"
	"github.com/alejandrodnm/sigmon/internal/scheduler"
	"github.com/alejandrodnm/sigmon/internal/trader"
)

// queueSize acota las colas señal→trader y trader→monitor.
const queueSize = 64

// runLive ejecuta el pipeline completo: señales del feed → trader →
// handles → supervisor de monitores, con el reporte periódico programado.
func runLive(
	ctx context.Context,
	cfg *config.Config,
	client *metatrader.Client,
	store *storage.SQLiteStorage,
	notifier *notify.Console,
	feedPath string,
) error {
	if cfg.Metrics.Addr != "" {
		srv := metrics.Serve(cfg.Metrics.Addr)
		defer srv.Close()
		slog.Info("metrics endpoint up", "addr", cfg.Metrics.Addr)
	}

	sched := scheduler.New(ctx, store, notifier)
	if err := sched.Register(cfg.Report.CronSpec); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	signals := make(chan domain.Signal, queueSize)
	handles := make(chan domain.TradeHandle, queueSize)

	trd := trader.New(client, client, trader.Config{
		Entry: evaluator.EntryConfig{
			PriceTolerance:    cfg.Evaluator.EntryTolerance,
			RevalidatePending: cfg.Trading.RevalidatePending,
		},
		Volumes:       cfg.Trading.Volumes,
		DefaultVolume: cfg.Trading.DefaultVolume,
	})

	mon := monitor.New(client, client, store, notifier, monitor.Config{
		PollInterval:   cfg.PollInterval(),
		CloseTolerance: cfg.Monitor.CloseTolerance,
	})
	sup := monitor.NewSupervisor(mon, cfg.Monitor.MaxConcurrent)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer close(handles)
		if err := trd.Run(ctx, signals, handles); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("trader exited with error", "err", err)
		}
	}()

	go func() {
		defer wg.Done()
		if err := sup.Run(ctx, handles); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("supervisor exited with error", "err", err)
		}
	}()

	// El feed JSONL sustituye al listener de mensajes: se vuelca una vez
	// y el canal queda abierto hasta el shutdown para señales futuras.
	if err := pumpFeed(ctx, feedPath, signals); err != nil {
		slog.Warn("feed load failed, continuing without backlog", "err", err)
	}

	<-ctx.Done()
	close(signals)
	wg.Wait()
	return nil
}

// pumpFeed vuelca las señales del archivo al canal del trader.
func pumpFeed(ctx context.Context, path string, signals chan<- domain.Signal) error {
	sigs, err := feed.ReadFile(path)
	if err != nil {
		return err
	}
	for _, sig := range sigs {
		select {
		case signals <- sig:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	slog.Info("feed loaded", "signals", len(sigs))
	return nil
}
