package ports

import (
	"context"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

// Notifier presenta veredictos al usuario. En la implementación de
// consola imprime una línea por outcome y una tabla para los resúmenes.
type Notifier interface {
	// NotifyOutcome reporta un veredicto individual recién resuelto.
	NotifyOutcome(ctx context.Context, o domain.Outcome) error

	// NotifySummary reporta un lote de veredictos con sus estadísticas.
	NotifySummary(ctx context.Context, outcomes []domain.Outcome, stats domain.OutcomeStats) error
}
