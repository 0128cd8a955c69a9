package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

// Notas estándar de los paths degenerados del walker.
const (
	noteNoData  = "no data"
	noteTimeout = "timeout"
	noteNoEntry = "no entry"
)

// TieResolver resuelve una vela ambigua (TP y SL tocados en el mismo
// intervalo) con evidencia de grano más fino.
type TieResolver interface {
	// ResolveTie decide qué nivel se tocó primero dentro de la ventana
	// [barTime, barTime+interval) de la vela ambigua.
	ResolveTie(ctx context.Context, sig domain.Signal, barTime time.Time, interval domain.BarInterval) (domain.OutcomeStatus, time.Time, string, error)
}

// WalkBars recorre la secuencia de velas de una señal y determina si TP o
// SL se toca primero. Función pura sobre sus entradas (más el TieResolver
// para velas ambiguas): reevaluarla con la misma secuencia produce el
// mismo resultado.
//
// deadline acota el horizonte de evaluación: las velas en o después de
// deadline no se consumen y la señal resuelve NONE/"timeout".
func WalkBars(
	ctx context.Context,
	sig domain.Signal,
	dec domain.EntryDecision,
	bars []domain.Bar,
	interval domain.BarInterval,
	deadline time.Time,
	ties TieResolver,
) (domain.Outcome, error) {
	if err := sig.Validate(); err != nil {
		return domain.Outcome{}, fmt.Errorf("evaluator.WalkBars: %w", err)
	}
	if err := domain.ValidateBarOrder(bars); err != nil {
		return domain.Outcome{}, fmt.Errorf("evaluator.WalkBars: %w", err)
	}

	if len(bars) == 0 {
		return outcomeNone(sig, dec, noteNoData), nil
	}

	// Con entrada a mercado el trade está activo desde la primera vela;
	// con entrada pendiente sigue inactivo hasta que una vela cruza el
	// precio de referencia.
	inTrade := dec.Kind == domain.EntryImmediate

	for _, bar := range bars {
		if !bar.Time.Before(deadline) {
			break
		}

		// El trigger de entrada se evalúa en cada vela, independientemente
		// de los predicados TP/SL. La vela que activa el trade también
		// cuenta para TP/SL.
		if !inTrade && dec.HasPrice {
			inTrade = entryTriggered(sig.Direction, bar, dec.Price)
		}
		if !inTrade {
			continue
		}

		tpHit, slHit := hitLevels(sig, bar)

		switch {
		case tpHit && slHit:
			status, hitAt, note, err := ties.ResolveTie(ctx, sig, bar.Time, interval)
			if err != nil {
				return domain.Outcome{}, fmt.Errorf("evaluator.WalkBars: resolve tie at %s: %w", bar.Time.Format(time.RFC3339), err)
			}
			return outcomeHit(sig, dec, status, hitAt, note), nil
		case tpHit:
			return outcomeHit(sig, dec, domain.StatusTP, bar.Time, ""), nil
		case slHit:
			return outcomeHit(sig, dec, domain.StatusSL, bar.Time, ""), nil
		}
	}

	// Una señal pendiente que nunca llegó a activarse resuelve como
	// "no entry"; una activa que agotó las velas, como "timeout".
	if !inTrade {
		return outcomeNone(sig, dec, noteNoEntry), nil
	}
	return outcomeNone(sig, dec, noteTimeout), nil
}

// entryTriggered comprueba si la vela cruza el precio de entrada pendiente.
func entryTriggered(dir domain.Direction, bar domain.Bar, entryPrice float64) bool {
	if dir == domain.Long {
		return bar.High >= entryPrice
	}
	return bar.Low <= entryPrice
}

// hitLevels evalúa los predicados TP y SL de la vela para la señal.
// Long: TP si high ≥ tp, SL si low ≤ sl. Short invierte high/low.
func hitLevels(sig domain.Signal, bar domain.Bar) (tpHit, slHit bool) {
	if sig.Direction == domain.Long {
		return bar.High >= sig.TP, bar.Low <= sig.SL
	}
	return bar.Low <= sig.TP, bar.High >= sig.SL
}

func outcomeNone(sig domain.Signal, dec domain.EntryDecision, note string) domain.Outcome {
	return domain.Outcome{
		MessageID:   sig.MessageID,
		Symbol:      sig.Symbol,
		Direction:   sig.Direction,
		TargetIndex: sig.TargetIndex,
		Status:      domain.StatusNone,
		EntryKind:   dec.Kind,
		EntryPrice:  dec.Price,
		TP:          sig.TP,
		SL:          sig.SL,
		OpenedAt:    sig.CreatedAt,
		Note:        note,
	}
}

func outcomeHit(sig domain.Signal, dec domain.EntryDecision, status domain.OutcomeStatus, hitAt time.Time, note string) domain.Outcome {
	t := hitAt
	return domain.Outcome{
		MessageID:   sig.MessageID,
		Symbol:      sig.Symbol,
		Direction:   sig.Direction,
		TargetIndex: sig.TargetIndex,
		Status:      status,
		HitAt:       &t,
		EntryKind:   dec.Kind,
		EntryPrice:  dec.Price,
		TP:          sig.TP,
		SL:          sig.SL,
		OpenedAt:    sig.CreatedAt,
		Note:        note,
	}
}
