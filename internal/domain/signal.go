package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Direction es el sentido de la señal: compra (long) o venta (short).
type Direction string

const (
	Long  Direction = "BUY"
	Short Direction = "SELL"
)

// ParseDirection normaliza el texto del proveedor ("buy", "SELL", ...) a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "LONG":
		return Long, nil
	case "SELL", "SHORT":
		return Short, nil
	default:
		return "", fmt.Errorf("domain.ParseDirection: unknown direction %q", s)
	}
}

// Errores de validación de señales. Una señal malformada se rechaza antes
// de cualquier evaluación; nunca se corrige en silencio.
var (
	ErrEmptySymbol  = errors.New("signal has empty symbol")
	ErrInvertedBand = errors.New("entry band inverted: entry_low > entry_high")
	ErrTargetsSide  = errors.New("take-profit contradicts direction")
)

// Signal es una señal de trading inmutable: banda de entrada direccional,
// take-profit y stop-loss, ligados al momento de emisión del mensaje.
type Signal struct {
	MessageID   int64
	CreatedAt   time.Time
	Symbol      string
	Direction   Direction
	EntryLow    float64
	EntryHigh   float64
	TP          float64
	SL          float64
	TargetIndex int    // índice del TP en señales multi-target (0 = único)
	RawText     string // texto original del mensaje, solo para trazabilidad
}

// Validate comprueba los invariantes estructurales de la señal:
// entry_low ≤ entry_high, y TP/SL coherentes con la dirección
// (long: TP > SL, short: TP < SL).
func (s Signal) Validate() error {
	if strings.TrimSpace(s.Symbol) == "" {
		return fmt.Errorf("domain.Signal.Validate: %w", ErrEmptySymbol)
	}
	if s.EntryLow > s.EntryHigh {
		return fmt.Errorf("domain.Signal.Validate: %w (low=%v high=%v)", ErrInvertedBand, s.EntryLow, s.EntryHigh)
	}
	switch s.Direction {
	case Long:
		if s.TP <= s.SL {
			return fmt.Errorf("domain.Signal.Validate: %w (long, tp=%v sl=%v)", ErrTargetsSide, s.TP, s.SL)
		}
	case Short:
		if s.TP >= s.SL {
			return fmt.Errorf("domain.Signal.Validate: %w (short, tp=%v sl=%v)", ErrTargetsSide, s.TP, s.SL)
		}
	default:
		return fmt.Errorf("domain.Signal.Validate: unknown direction %q", s.Direction)
	}
	return nil
}

// EntryKind clasifica cómo debe entrarse a una señal dada la cotización actual.
type EntryKind string

const (
	// EntryImmediate: el precio ya está dentro de la banda → orden a mercado.
	EntryImmediate EntryKind = "MARKET"
	// EntryPendingAbove: la banda está por encima del precio → orden stop.
	EntryPendingAbove EntryKind = "PENDING_ABOVE"
	// EntryPendingBelow: la banda está por debajo del precio → orden limit.
	EntryPendingBelow EntryKind = "PENDING_BELOW"
)

// EntryDecision es el resultado de decidir la entrada. Se calcula UNA vez
// por señal con la cotización del momento; nunca se recalcula con el trade activo.
type EntryDecision struct {
	Kind     EntryKind
	Price    float64
	HasPrice bool // false cuando no había cotización y se degradó a mercado
}

// Pending devuelve true si la decisión requiere una orden pendiente.
func (d EntryDecision) Pending() bool {
	return d.Kind == EntryPendingAbove || d.Kind == EntryPendingBelow
}
