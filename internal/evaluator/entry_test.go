package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

func longSignal(low, high float64) domain.Signal {
	return domain.Signal{Direction: domain.Long, EntryLow: low, EntryHigh: high, TP: high + 10, SL: low - 10}
}

func shortSignal(low, high float64) domain.Signal {
	return domain.Signal{Direction: domain.Short, EntryLow: low, EntryHigh: high, TP: low - 10, SL: high + 10}
}

func TestEntryResolver_Decide_Long(t *testing.T) {
	r := NewEntryResolver(EntryConfig{})

	tests := []struct {
		name     string
		sig      domain.Signal
		quote    domain.Quote
		wantKind domain.EntryKind
		wantPx   float64
	}{
		{"band above ask → stop at entry_low", longSignal(100, 102), domain.Quote{Bid: 98.9, Ask: 99}, domain.EntryPendingAbove, 100},
		{"band below ask → limit at entry_high", longSignal(100, 102), domain.Quote{Bid: 104.9, Ask: 105}, domain.EntryPendingBelow, 102},
		{"ask inside band → market at ask", longSignal(100, 102), domain.Quote{Bid: 100.9, Ask: 101}, domain.EntryImmediate, 101},
		{"ask on band edge → market", longSignal(100, 102), domain.Quote{Bid: 99.9, Ask: 100}, domain.EntryImmediate, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, note := r.Decide(tt.sig, tt.quote, true)
			assert.Equal(t, tt.wantKind, dec.Kind)
			assert.Equal(t, tt.wantPx, dec.Price)
			assert.True(t, dec.HasPrice)
			assert.Empty(t, note)
		})
	}
}

func TestEntryResolver_Decide_Short(t *testing.T) {
	r := NewEntryResolver(EntryConfig{})

	tests := []struct {
		name     string
		sig      domain.Signal
		quote    domain.Quote
		wantKind domain.EntryKind
		wantPx   float64
	}{
		{"band below bid → stop at entry_high", shortSignal(100, 102), domain.Quote{Bid: 105, Ask: 105.1}, domain.EntryPendingBelow, 102},
		{"band above bid → limit at entry_low", shortSignal(100, 102), domain.Quote{Bid: 99, Ask: 99.1}, domain.EntryPendingAbove, 100},
		{"bid inside band → market at bid", shortSignal(100, 102), domain.Quote{Bid: 101, Ask: 101.1}, domain.EntryImmediate, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, _ := r.Decide(tt.sig, tt.quote, true)
			assert.Equal(t, tt.wantKind, dec.Kind)
			assert.Equal(t, tt.wantPx, dec.Price)
		})
	}
}

func TestEntryResolver_Decide_NoQuote(t *testing.T) {
	r := NewEntryResolver(EntryConfig{})

	dec, note := r.Decide(longSignal(100, 102), domain.Quote{}, false)

	assert.Equal(t, domain.EntryImmediate, dec.Kind)
	assert.False(t, dec.HasPrice)
	assert.NotEmpty(t, note, "degraded decision must carry a note")
}

func TestEntryResolver_Decide_Tolerance(t *testing.T) {
	// Con tolerancia 0.5, un ask a 0.3 de la banda sigue siendo mercado.
	r := NewEntryResolver(EntryConfig{PriceTolerance: 0.5})

	dec, _ := r.Decide(longSignal(100, 102), domain.Quote{Bid: 99.6, Ask: 99.7}, true)
	assert.Equal(t, domain.EntryImmediate, dec.Kind)

	// Más allá de la tolerancia vuelve a ser pendiente.
	dec, _ = r.Decide(longSignal(100, 102), domain.Quote{Bid: 99.0, Ask: 99.1}, true)
	assert.Equal(t, domain.EntryPendingAbove, dec.Kind)
}

func TestEntryResolver_Revalidate(t *testing.T) {
	r := NewEntryResolver(EntryConfig{RevalidatePending: true})

	pending := domain.EntryDecision{Kind: domain.EntryPendingAbove, Price: 100, HasPrice: true}

	// El precio atravesó el nivel pendiente → degradar a mercado.
	dec := r.Revalidate(pending, domain.Long, domain.Quote{Bid: 100.4, Ask: 100.5})
	assert.Equal(t, domain.EntryImmediate, dec.Kind)
	assert.Equal(t, 100.5, dec.Price)

	// Sin cruce, la decisión pendiente se mantiene.
	dec = r.Revalidate(pending, domain.Long, domain.Quote{Bid: 99.4, Ask: 99.5})
	assert.Equal(t, domain.EntryPendingAbove, dec.Kind)

	// Con la revalidación desactivada nunca se degrada.
	off := NewEntryResolver(EntryConfig{})
	dec = off.Revalidate(pending, domain.Long, domain.Quote{Bid: 100.4, Ask: 100.5})
	assert.Equal(t, domain.EntryPendingAbove, dec.Kind)
}
