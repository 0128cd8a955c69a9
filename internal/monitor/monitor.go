// Package monitor tracks live trades until the broker reports them
// closed, classifies the result and cleans up sibling pending orders.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
	"github.com/alejandrodnm/sigmon/internal/metrics"
	"github.com/alejandrodnm/sigmon/internal/ports"
)

const (
	// defaultPollInterval is the wait between broker polls — the only
	// suspension point of a monitoring task.
	defaultPollInterval = 10 * time.Second

	// defaultCloseTolerance classifies a closing deal as TP when its
	// price lands within this distance of the take-profit level.
	defaultCloseTolerance = 1.0
)

// Config controls the live monitoring loop.
type Config struct {
	PollInterval   time.Duration
	CloseTolerance float64
}

// Monitor watches one trade handle at a time until the position closes.
// It owns the handle exclusively for the duration of the polling loop.
type Monitor struct {
	positions ports.PositionSource
	orders    ports.OrderExecutor
	store     ports.OutcomeStorage
	notifier  ports.Notifier
	cfg       Config
}

// New creates a Monitor with all collaborators injected.
func New(positions ports.PositionSource, orders ports.OrderExecutor, store ports.OutcomeStorage, notifier ports.Notifier, cfg Config) *Monitor {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.CloseTolerance <= 0 {
		cfg.CloseTolerance = defaultCloseTolerance
	}
	return &Monitor{positions: positions, orders: orders, store: store, notifier: notifier, cfg: cfg}
}

// MonitorTrade runs the OPEN → CLOSED → RESOLVED state machine for one
// handle: poll open positions until the ticket disappears, then inspect
// the closing deal, record exactly one Outcome and attempt sibling
// cleanup. Broker failures and reporting lag re-poll instead of erroring;
// only ctx cancellation aborts the loop without an Outcome.
func (m *Monitor) MonitorTrade(ctx context.Context, trade domain.TradeHandle) (domain.Outcome, error) {
	log := slog.With(
		"handle", trade.ID,
		"ticket", trade.Ticket,
		"symbol", trade.Signal.Symbol,
		"direction", trade.Signal.Direction,
	)
	log.Info("monitor started", "siblings", len(trade.SiblingTickets))

	for {
		res, err := m.poll(ctx, trade)
		if err != nil {
			// Collaborator failure at the boundary: log and re-poll.
			log.Warn("broker poll failed, retrying", "err", err)
		}
		if outcome, ok := res.Outcome(); ok {
			m.finish(ctx, trade, outcome, log)
			return outcome, nil
		}

		metrics.PollsTotal.WithLabelValues(trade.Signal.Symbol).Inc()
		if err := m.wait(ctx); err != nil {
			log.Info("monitor cancelled before resolution")
			return domain.Outcome{}, err
		}
	}
}

// poll performs one OPEN/CLOSED inspection. It returns a pending
// Resolution while the position is live or the closing deal has not been
// reported yet.
func (m *Monitor) poll(ctx context.Context, trade domain.TradeHandle) (domain.Resolution, error) {
	positions, err := m.positions.OpenPositions(ctx, trade.Ticket)
	if err != nil {
		return domain.PendingResolution(), fmt.Errorf("monitor.poll: open positions: %w", err)
	}
	if len(positions) > 0 {
		return domain.PendingResolution(), nil
	}

	// Position gone → CLOSED. The closing deal may lag the position
	// report; treat an empty history as still CLOSED and re-poll.
	deals, err := m.positions.ClosingDeals(ctx, trade.Ticket)
	if err != nil {
		return domain.PendingResolution(), fmt.Errorf("monitor.poll: closing deals: %w", err)
	}
	if len(deals) == 0 {
		return domain.PendingResolution(), nil
	}

	closing := deals[len(deals)-1]
	return domain.ResolvedResolution(m.buildOutcome(trade, closing)), nil
}

// buildOutcome classifies the closing deal and assembles the terminal
// Outcome row. Classification compares the closing price to the TP level
// within CloseTolerance — a deliberately simplified rule, distinct from
// the exact bar-walk predicates used by the offline evaluator.
func (m *Monitor) buildOutcome(trade domain.TradeHandle, closing domain.Deal) domain.Outcome {
	sig := trade.Signal
	closedAt := closing.Time

	status := domain.StatusSL
	note := "close classified against TP tolerance"
	if math.Abs(closing.Price-sig.TP) <= m.cfg.CloseTolerance {
		status = domain.StatusTP
	}

	hitAt := closedAt
	return domain.Outcome{
		MessageID:           sig.MessageID,
		Symbol:              sig.Symbol,
		Direction:           sig.Direction,
		TargetIndex:         sig.TargetIndex,
		Status:              status,
		HitAt:               &hitAt,
		EntryKind:           trade.Entry.Kind,
		EntryPrice:          trade.SignalEntryPrice,
		TP:                  sig.TP,
		SL:                  sig.SL,
		MarketPriceAtSignal: trade.MarketPriceAtSignal,
		OpenedAt:            trade.OpenedAt,
		ClosedAt:            &closedAt,
		Profit:              closing.Profit,
		Note:                note,
	}
}

// finish records the Outcome and runs sibling cleanup. The outcome is
// final before cleanup starts: persistence or cancellation failures are
// logged and never re-open an already resolved trade.
func (m *Monitor) finish(ctx context.Context, trade domain.TradeHandle, outcome domain.Outcome, log *slog.Logger) {
	metrics.OutcomesTotal.WithLabelValues(string(outcome.Status)).Inc()

	if err := m.store.SaveOutcome(ctx, outcome); err != nil {
		log.Error("failed to persist outcome", "err", err)
	}
	if err := m.notifier.NotifyOutcome(ctx, outcome); err != nil {
		log.Warn("notifier error", "err", err)
	}

	if outcome.Status == domain.StatusTP && len(trade.SiblingTickets) > 0 {
		m.cancelSiblings(ctx, trade, log)
	}

	log.Info("monitor finished",
		"status", outcome.Status,
		"profit", outcome.Profit,
		"note", outcome.Note,
	)
}

// cancelSiblings attempts to cancel every sibling pending order still
// reported live by the broker. Best effort: each failure is logged and
// counted, none affects the recorded outcome.
func (m *Monitor) cancelSiblings(ctx context.Context, trade domain.TradeHandle, log *slog.Logger) {
	live, err := m.orders.OpenOrders(ctx, trade.SiblingTickets)
	if err != nil {
		log.Warn("could not list sibling orders, attempting cancellation of all", "err", err)
		live = trade.SiblingTickets
	}

	for _, ticket := range live {
		if err := m.orders.CancelOrder(ctx, ticket); err != nil {
			metrics.CancellationsTotal.WithLabelValues("failed").Inc()
			log.Warn("failed to cancel sibling order", "sibling", ticket, "err", err)
			continue
		}
		metrics.CancellationsTotal.WithLabelValues("ok").Inc()
		log.Info("cancelled sibling order", "sibling", ticket)
	}
}

// wait blocks for one poll interval or until ctx is cancelled.
func (m *Monitor) wait(ctx context.Context) error {
	timer := time.NewTimer(m.cfg.PollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
