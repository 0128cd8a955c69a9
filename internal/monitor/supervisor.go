package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

const defaultMaxConcurrent = 32

// Supervisor fans trade handles out to per-trade monitoring goroutines.
// It replaces the original design's unbounded task spawning: concurrent
// monitors are capped by a semaphore and every monitor inherits the
// supervisor ctx, so a shutdown cancels all outstanding polls and the
// supervisor waits for them to drain before returning.
type Supervisor struct {
	monitor       *Monitor
	maxConcurrent int
}

// NewSupervisor creates a Supervisor running at most maxConcurrent
// monitors at once. maxConcurrent <= 0 uses a sane default.
func NewSupervisor(m *Monitor, maxConcurrent int) *Supervisor {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Supervisor{monitor: m, maxConcurrent: maxConcurrent}
}

// Run consumes handles until the channel closes or ctx is cancelled.
// Handles are accepted in arrival order, but monitors resolve
// independently and may finish out of order relative to each other.
func (s *Supervisor) Run(ctx context.Context, handles <-chan domain.TradeHandle) error {
	sem := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup

	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			slog.Info("supervisor shutting down, waiting for monitors to drain")
			return ctx.Err()
		case trade, ok := <-handles:
			if !ok {
				return nil
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()

				if _, err := s.monitor.MonitorTrade(ctx, trade); err != nil && !errors.Is(err, context.Canceled) {
					slog.Error("monitor exited with error", "handle", trade.ID, "err", err)
				}
			}()
		}
	}
}
