package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
	"github.com/alejandrodnm/sigmon/internal/ports"
)

// Notas de tie-break. La nota siempre documenta cómo se decidió el empate.
const (
	noteTieTickSL     = "tie → SL first (tick)"
	noteTieTickTP     = "tie → TP first (tick)"
	noteTieFallbackSL = "tie → conservative SL (no tick evidence)"
)

// TickTieBreaker resuelve velas ambiguas reescaneando la ventana de la
// vela con ticks. Si no hay evidencia determinista, cae a SL: nunca se
// reclama un resultado rentable sin confirmación de ticks.
type TickTieBreaker struct {
	history ports.HistoryProvider
}

// NewTickTieBreaker crea un TieResolver respaldado por el histórico de ticks.
func NewTickTieBreaker(history ports.HistoryProvider) *TickTieBreaker {
	return &TickTieBreaker{history: history}
}

// ResolveTie escanea los ticks de la ventana [barTime, barTime+interval)
// en orden ascendente. Para cada tick, el precio relevante es el ask en
// señales long y el bid en short. El primer tick que satisface la
// condición de SL o de TP — comprobadas en ese orden fijo, SL primero,
// para sesgar conservadoramente en ticks verdaderamente simultáneos —
// decide el resultado.
func (tb *TickTieBreaker) ResolveTie(ctx context.Context, sig domain.Signal, barTime time.Time, interval domain.BarInterval) (domain.OutcomeStatus, time.Time, string, error) {
	windowEnd := barTime.Add(interval.Duration())

	ticks, err := tb.history.Ticks(ctx, sig.Symbol, barTime, windowEnd)
	if err != nil {
		return "", time.Time{}, "", fmt.Errorf("evaluator.ResolveTie: fetch ticks: %w", err)
	}

	for _, tick := range ticks {
		var price float64
		if sig.Direction == domain.Long {
			price = tick.Ask
		} else {
			price = tick.Bid
		}

		if sig.Direction == domain.Long {
			if price <= sig.SL {
				return domain.StatusSL, tick.Time, noteTieTickSL, nil
			}
			if price >= sig.TP {
				return domain.StatusTP, tick.Time, noteTieTickTP, nil
			}
		} else {
			if price >= sig.SL {
				return domain.StatusSL, tick.Time, noteTieTickSL, nil
			}
			if price <= sig.TP {
				return domain.StatusTP, tick.Time, noteTieTickTP, nil
			}
		}
	}

	// Sin tick concluyente (hueco en el feed, secuencia vacía): default
	// conservador a SL con la hora de la vela ambigua.
	return domain.StatusSL, barTime, noteTieFallbackSL, nil
}
