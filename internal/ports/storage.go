package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

// OutcomeStorage persiste los veredictos de señales y trades.
type OutcomeStorage interface {
	// SaveOutcome persiste un veredicto. Upsert por (message_id, target_idx):
	// reevaluar una señal reescribe su fila en lugar de duplicarla.
	SaveOutcome(ctx context.Context, o domain.Outcome) error

	// GetOutcomes devuelve los veredictos registrados en el rango dado,
	// ordenados por timestamp de cierre descendente.
	GetOutcomes(ctx context.Context, from, to time.Time) ([]domain.Outcome, error)

	// Stats agrega los veredictos registrados (conteos, win rate, P&L).
	Stats(ctx context.Context) (domain.OutcomeStats, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
