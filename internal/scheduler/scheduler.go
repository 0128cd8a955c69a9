// Package scheduler programa el reporte periódico de veredictos.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alejandrodnm/sigmon/internal/ports"
)

// reportWindow acota cuánto histórico entra en cada resumen programado.
const reportWindow = 7 * 24 * time.Hour

// Scheduler ejecuta el job de resumen de resultados según un cron spec.
type Scheduler struct {
	cron     *cron.Cron
	store    ports.OutcomeStorage
	notifier ports.Notifier
	ctx      context.Context
}

// New crea un Scheduler sobre el storage y notifier dados.
func New(ctx context.Context, store ports.OutcomeStorage, notifier ports.Notifier) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		store:    store,
		notifier: notifier,
		ctx:      ctx,
	}
}

// Register añade el job de resumen con el spec dado ("@hourly", "0 8 * * *", ...).
func (s *Scheduler) Register(reportSpec string) error {
	if _, err := s.cron.AddFunc(reportSpec, s.reportTask); err != nil {
		return fmt.Errorf("scheduler.Register: report task: %w", err)
	}
	return nil
}

// Start arranca el cron en background.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started")
}

// Stop para el cron y espera a que termine el job en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) reportTask() {
	now := time.Now().UTC()

	outcomes, err := s.store.GetOutcomes(s.ctx, now.Add(-reportWindow), now)
	if err != nil {
		slog.Error("report task: load outcomes", "err", err)
		return
	}
	stats, err := s.store.Stats(s.ctx)
	if err != nil {
		slog.Error("report task: load stats", "err", err)
		return
	}

	if err := s.notifier.NotifySummary(s.ctx, outcomes, stats); err != nil {
		slog.Warn("report task: notifier error", "err", err)
	}
}
