// Package evaluator resuelve el veredicto de una señal contra el
// histórico del bróker: decide la entrada, recorre velas hasta tocar TP o
// SL y desambigua colisiones con ticks.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
	"github.com/alejandrodnm/sigmon/internal/ports"
)

const (
	// defaultHorizon acota cuánto futuro se evalúa tras la emisión de la
	// señal. maxHorizon es el techo configurable.
	defaultHorizon = 24 * time.Hour
	maxHorizon     = 48 * time.Hour
)

// Config controla la evaluación offline.
type Config struct {
	Horizon  time.Duration
	Interval domain.BarInterval
	Entry    EntryConfig
}

// DefaultConfig devuelve la configuración de producción.
func DefaultConfig() Config {
	return Config{
		Horizon:  defaultHorizon,
		Interval: domain.IntervalM1,
	}
}

// Evaluator orquesta la resolución offline de señales. Todas las
// dependencias externas entran por el constructor; no hay estado global.
type Evaluator struct {
	quotes  ports.QuoteProvider
	history ports.HistoryProvider
	entry   *EntryResolver
	ties    TieResolver
	cfg     Config
}

// New crea un Evaluator con las dependencias inyectadas.
func New(quotes ports.QuoteProvider, history ports.HistoryProvider, cfg Config) *Evaluator {
	if cfg.Horizon <= 0 {
		cfg.Horizon = defaultHorizon
	}
	if cfg.Horizon > maxHorizon {
		cfg.Horizon = maxHorizon
	}
	if cfg.Interval == "" {
		cfg.Interval = domain.IntervalM1
	}
	return &Evaluator{
		quotes:  quotes,
		history: history,
		entry:   NewEntryResolver(cfg.Entry),
		ties:    NewTickTieBreaker(history),
		cfg:     cfg,
	}
}

// EvaluateSignal resuelve una señal contra el histórico de velas:
//  1. Decide el tipo de entrada con la cotización actual.
//  2. Recorre velas desde la emisión hasta tocar TP o SL.
//  3. Desambigua velas con doble toque usando ticks.
//
// Los estados sin datos (sin velas, sin cotización) resuelven a defaults
// documentados, nunca a error; solo una señal malformada o un fallo del
// colaborador de histórico devuelven error.
func (e *Evaluator) EvaluateSignal(ctx context.Context, sig domain.Signal) (domain.Outcome, error) {
	if err := sig.Validate(); err != nil {
		return domain.Outcome{}, fmt.Errorf("evaluator.EvaluateSignal: %w", err)
	}

	quote, hasQuote := e.currentQuote(ctx, sig.Symbol)
	dec, note := e.entry.Decide(sig, quote, hasQuote)

	from := sig.CreatedAt
	deadline := sig.CreatedAt.Add(e.cfg.Horizon)

	bars, err := e.history.Bars(ctx, sig.Symbol, e.cfg.Interval, from, deadline)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("evaluator.EvaluateSignal: fetch bars: %w", err)
	}

	outcome, err := WalkBars(ctx, sig, dec, bars, e.cfg.Interval, deadline, e.ties)
	if err != nil {
		return domain.Outcome{}, err
	}

	if hasQuote {
		outcome.MarketPriceAtSignal = quote.Side(sig.Direction)
	}
	if note != "" {
		outcome.Note = joinNotes(note, outcome.Note)
	}

	slog.Info("signal evaluated",
		"message_id", sig.MessageID,
		"symbol", sig.Symbol,
		"direction", sig.Direction,
		"status", outcome.Status,
		"entry", outcome.EntryKind,
		"note", outcome.Note,
	)
	return outcome, nil
}

// currentQuote pide la cotización actual; la ausencia de cotización es
// una condición definida (ErrNoQuote) y degrada, no falla.
func (e *Evaluator) currentQuote(ctx context.Context, symbol string) (domain.Quote, bool) {
	quote, err := e.quotes.BestBidAsk(ctx, symbol)
	if err != nil {
		if !errors.Is(err, ports.ErrNoQuote) {
			slog.Warn("quote fetch failed, degrading to market entry", "symbol", symbol, "err", err)
		}
		return domain.Quote{}, false
	}
	return quote, true
}

func joinNotes(a, b string) string {
	if b == "" {
		return a
	}
	return a + "; " + b
}
