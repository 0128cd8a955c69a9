package domain

import "time"

// OutcomeStatus es el veredicto final de una señal o trade.
type OutcomeStatus string

const (
	StatusTP   OutcomeStatus = "TP"
	StatusSL   OutcomeStatus = "SL"
	StatusNone OutcomeStatus = "NONE"
)

// Outcome es la resolución de una señal. Se produce exactamente una vez
// por evaluación (offline) o por ciclo de vida de un trade (live) y es
// inmutable después de crearse. Es la representación compartida que
// consumen persistencia y reporting.
type Outcome struct {
	MessageID   int64
	Symbol      string
	Direction   Direction
	TargetIndex int

	Status OutcomeStatus
	HitAt  *time.Time // nil cuando Status == NONE

	EntryKind  EntryKind
	EntryPrice float64

	TP float64
	SL float64

	// Solo path live: precio al emitirse la señal, apertura/cierre y P&L realizado.
	MarketPriceAtSignal float64
	OpenedAt            time.Time
	ClosedAt            *time.Time
	Profit              float64

	// Note documenta decisiones de tie-break o paths degradados
	// ("timeout", "no data", "tie → conservative SL", ...).
	Note string
}

// Resolved devuelve true si la señal llegó a un veredicto TP o SL.
func (o Outcome) Resolved() bool {
	return o.Status == StatusTP || o.Status == StatusSL
}

// Resolution es el estado de un trade monitorizado: pendiente o resuelto
// con su Outcome. El Outcome solo es accesible cuando resolved es true.
type Resolution struct {
	outcome  Outcome
	resolved bool
}

// PendingResolution es el estado de un trade aún abierto.
func PendingResolution() Resolution {
	return Resolution{}
}

// ResolvedResolution envuelve un Outcome terminal.
func ResolvedResolution(o Outcome) Resolution {
	return Resolution{outcome: o, resolved: true}
}

// Resolved indica si el trade ya tiene veredicto.
func (r Resolution) Resolved() bool { return r.resolved }

// Outcome devuelve el veredicto y un bool de presencia.
func (r Resolution) Outcome() (Outcome, bool) { return r.outcome, r.resolved }

// OutcomeStats agrega los veredictos registrados para reporting.
type OutcomeStats struct {
	Total    int
	TPCount  int
	SLCount  int
	NoneHits int
	WinRate  float64 // TPCount / (TPCount + SLCount), 0 si no hay resueltos
	NetPL    float64 // suma de Profit de los outcomes live
}
