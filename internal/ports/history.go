package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

// HistoryProvider obtiene velas y ticks históricos del bróker.
// Ambas operaciones pueden devolver secuencias vacías sin error:
// la ausencia de datos es una condición definida, no un fallo.
type HistoryProvider interface {
	// Bars devuelve las velas OHLC del símbolo en [from, to), ordenadas
	// ascendentemente por tiempo.
	Bars(ctx context.Context, symbol string, interval domain.BarInterval, from, to time.Time) ([]domain.Bar, error)

	// Ticks devuelve los ticks bid/ask del símbolo en [from, to),
	// ordenados ascendentemente por tiempo.
	Ticks(ctx context.Context, symbol string, from, to time.Time) ([]domain.Tick, error)
}
