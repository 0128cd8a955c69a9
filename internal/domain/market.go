package domain

import (
	"fmt"
	"time"
)

// Quote es un snapshot del mejor bid/ask de un símbolo.
type Quote struct {
	Bid float64
	Ask float64
}

// Side devuelve el precio de referencia para una dirección: ask para
// compras, bid para ventas.
func (q Quote) Side(d Direction) float64 {
	if d == Long {
		return q.Ask
	}
	return q.Bid
}

// Bar es una vela OHLC a intervalo fijo (M1 por defecto).
// Invariante: High ≥ max(Open, Close) y Low ≤ min(Open, Close).
type Bar struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Tick es una muestra bid/ask de resolución fina, usada solo para
// desambiguar colisiones TP/SL dentro de una misma vela.
type Tick struct {
	Time time.Time
	Bid  float64
	Ask  float64
}

// BarInterval identifica la resolución de las velas pedidas al bróker.
type BarInterval string

const (
	IntervalM1 BarInterval = "M1"
	IntervalM5 BarInterval = "M5"
)

// Duration devuelve la duración de una vela del intervalo dado.
func (i BarInterval) Duration() time.Duration {
	switch i {
	case IntervalM5:
		return 5 * time.Minute
	default:
		return time.Minute
	}
}

// ValidateBarOrder comprueba que la secuencia de velas esté en orden
// temporal estrictamente ascendente. El walker rechaza secuencias
// desordenadas en lugar de ordenarlas: un feed desordenado es una
// violación de contrato del caller, no un estado recuperable.
func ValidateBarOrder(bars []Bar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return fmt.Errorf("domain.ValidateBarOrder: bar %d (%s) not after bar %d (%s)",
				i, bars[i].Time.Format(time.RFC3339), i-1, bars[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}
