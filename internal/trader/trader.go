// Package trader consume señales entrantes en orden de llegada, las
// ejecuta contra el bróker y entrega los handles resultantes al monitor.
package trader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/sigmon/internal/domain"
	"github.com/alejandrodnm/sigmon/internal/evaluator"
	"github.com/alejandrodnm/sigmon/internal/metrics"
	"github.com/alejandrodnm/sigmon/internal/ports"
)

const defaultVolume = 0.01

// Config controla la ejecución de señales.
type Config struct {
	Entry evaluator.EntryConfig
	// Volumes mapea símbolo → lote. Los símbolos fuera del mapa usan
	// DefaultVolume.
	Volumes       map[string]float64
	DefaultVolume float64
}

// Trader es el loop único que convierte señales en trades monitorizables.
// Una sola goroutine lo ejecuta: el orden de llegada de las señales se
// preserva hasta el hand-off al monitor.
type Trader struct {
	quotes   ports.QuoteProvider
	executor ports.OrderExecutor
	entry    *evaluator.EntryResolver
	cfg      Config
}

// New crea un Trader con las dependencias inyectadas.
func New(quotes ports.QuoteProvider, executor ports.OrderExecutor, cfg Config) *Trader {
	if cfg.DefaultVolume <= 0 {
		cfg.DefaultVolume = defaultVolume
	}
	return &Trader{
		quotes:   quotes,
		executor: executor,
		entry:    evaluator.NewEntryResolver(cfg.Entry),
		cfg:      cfg,
	}
}

// Run consume señales del canal hasta que se cierre o ctx se cancele.
// Cada handle ejecutado se publica en handles. Los fallos por señal
// (validación, bróker) se loguean y saltan a la siguiente: el loop nunca
// muere por una señal mala.
func (t *Trader) Run(ctx context.Context, signals <-chan domain.Signal, handles chan<- domain.TradeHandle) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-signals:
			if !ok {
				return nil
			}

			handle, err := t.ExecuteSignal(ctx, sig)
			if err != nil {
				slog.Error("failed to execute signal", "message_id", sig.MessageID, "err", err)
				continue
			}

			select {
			case handles <- handle:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// ExecuteSignal valida la señal, decide la entrada (con revalidación del
// nivel pendiente a la hora de enviar) y coloca la orden. Devuelve el
// TradeHandle que el monitor seguirá hasta su cierre.
func (t *Trader) ExecuteSignal(ctx context.Context, sig domain.Signal) (domain.TradeHandle, error) {
	if err := sig.Validate(); err != nil {
		metrics.SignalsTotal.WithLabelValues("invalid").Inc()
		return domain.TradeHandle{}, fmt.Errorf("trader.ExecuteSignal: %w", err)
	}

	quote, hasQuote, err := t.currentQuote(ctx, sig.Symbol)
	if err != nil {
		metrics.SignalsTotal.WithLabelValues("exec_failed").Inc()
		return domain.TradeHandle{}, err
	}

	dec, note := t.entry.Decide(sig, quote, hasQuote)
	if hasQuote {
		// Revalidación: si el precio ya atravesó el nivel pendiente entre
		// la decisión y el envío, se entra a mercado.
		dec = t.entry.Revalidate(dec, sig.Direction, quote)
	}
	if note != "" {
		slog.Warn("degraded entry decision", "message_id", sig.MessageID, "note", note)
	}

	placed, err := t.executor.PlaceOrder(ctx, domain.PlaceOrderRequest{
		Symbol:    sig.Symbol,
		Direction: sig.Direction,
		Kind:      dec.Kind,
		Price:     dec.Price,
		Volume:    t.volumeFor(sig.Symbol),
		TP:        sig.TP,
		SL:        sig.SL,
		Comment:   fmt.Sprintf("sigmon msg=%d tp=%d", sig.MessageID, sig.TargetIndex),
	})
	if err != nil {
		metrics.SignalsTotal.WithLabelValues("exec_failed").Inc()
		return domain.TradeHandle{}, fmt.Errorf("trader.ExecuteSignal: place order: %w", err)
	}

	metrics.SignalsTotal.WithLabelValues("accepted").Inc()

	handle := domain.TradeHandle{
		ID:                  uuid.New().String(),
		Signal:              sig,
		Ticket:              placed.Ticket,
		SignalEntryPrice:    dec.Price,
		ExecutedPrice:       placed.Price,
		MarketPriceAtSignal: quote.Side(sig.Direction),
		OpenedAt:            placed.ExecutedAt,
		Entry:               dec,
		Parent:              dec.Kind == domain.EntryImmediate,
	}
	if handle.OpenedAt.IsZero() {
		handle.OpenedAt = time.Now().UTC()
	}

	slog.Info("signal executed",
		"message_id", sig.MessageID,
		"symbol", sig.Symbol,
		"direction", sig.Direction,
		"entry", dec.Kind,
		"ticket", placed.Ticket,
	)
	return handle, nil
}

func (t *Trader) currentQuote(ctx context.Context, symbol string) (domain.Quote, bool, error) {
	quote, err := t.quotes.BestBidAsk(ctx, symbol)
	if err != nil {
		if errors.Is(err, ports.ErrNoQuote) {
			return domain.Quote{}, false, nil
		}
		return domain.Quote{}, false, fmt.Errorf("trader.currentQuote: %w", err)
	}
	return quote, true, nil
}

func (t *Trader) volumeFor(symbol string) float64 {
	if v, ok := t.cfg.Volumes[symbol]; ok && v > 0 {
		return v
	}
	return t.cfg.DefaultVolume
}
