package evaluator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/sigmon/internal/domain"
	"github.com/alejandrodnm/sigmon/internal/ports"
)

type stubQuotes struct {
	quote domain.Quote
	err   error
}

func (s *stubQuotes) BestBidAsk(context.Context, string) (domain.Quote, error) {
	return s.quote, s.err
}

// scriptedHistory sirve velas y ticks enlatados registrando la ventana
// de velas solicitada.
type scriptedHistory struct {
	bars     []domain.Bar
	ticks    []domain.Tick
	barsErr  error
	barsFrom time.Time
	barsTo   time.Time
}

func (h *scriptedHistory) Bars(_ context.Context, _ string, _ domain.BarInterval, from, to time.Time) ([]domain.Bar, error) {
	h.barsFrom, h.barsTo = from, to
	return h.bars, h.barsErr
}

func (h *scriptedHistory) Ticks(context.Context, string, time.Time, time.Time) ([]domain.Tick, error) {
	return h.ticks, nil
}

func TestEvaluateSignal_TP(t *testing.T) {
	quotes := &stubQuotes{quote: domain.Quote{Bid: 100.9, Ask: 101}}
	history := &scriptedHistory{bars: makeBars([2]float64{101, 99}, [2]float64{111, 100})}
	eval := New(quotes, history, Config{})

	outcome, err := eval.EvaluateSignal(context.Background(), walkSignal())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusTP, outcome.Status)
	assert.Equal(t, domain.EntryImmediate, outcome.EntryKind)
	assert.Equal(t, 101.0, outcome.MarketPriceAtSignal, "long signals snapshot the ask")
	require.NotNil(t, outcome.HitAt)
}

func TestEvaluateSignal_WindowFollowsHorizon(t *testing.T) {
	quotes := &stubQuotes{quote: domain.Quote{Bid: 100.9, Ask: 101}}
	history := &scriptedHistory{}
	eval := New(quotes, history, Config{Horizon: 6 * time.Hour})

	sig := walkSignal()
	_, err := eval.EvaluateSignal(context.Background(), sig)

	require.NoError(t, err)
	assert.Equal(t, sig.CreatedAt, history.barsFrom)
	assert.Equal(t, sig.CreatedAt.Add(6*time.Hour), history.barsTo)
}

func TestEvaluateSignal_HorizonClamped(t *testing.T) {
	quotes := &stubQuotes{quote: domain.Quote{Bid: 100.9, Ask: 101}}
	history := &scriptedHistory{}
	eval := New(quotes, history, Config{Horizon: 96 * time.Hour})

	sig := walkSignal()
	_, err := eval.EvaluateSignal(context.Background(), sig)

	require.NoError(t, err)
	assert.Equal(t, sig.CreatedAt.Add(48*time.Hour), history.barsTo)
}

func TestEvaluateSignal_NoQuoteDegrades(t *testing.T) {
	quotes := &stubQuotes{err: ports.ErrNoQuote}
	history := &scriptedHistory{bars: makeBars([2]float64{111, 100})}
	eval := New(quotes, history, Config{})

	outcome, err := eval.EvaluateSignal(context.Background(), walkSignal())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusTP, outcome.Status)
	assert.Zero(t, outcome.MarketPriceAtSignal)
	assert.NotEmpty(t, outcome.Note, "degraded entry decision must be noted")
}

func TestEvaluateSignal_NoBars(t *testing.T) {
	quotes := &stubQuotes{quote: domain.Quote{Bid: 100.9, Ask: 101}}
	eval := New(quotes, &scriptedHistory{}, Config{})

	outcome, err := eval.EvaluateSignal(context.Background(), walkSignal())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusNone, outcome.Status)
	assert.Equal(t, "no data", outcome.Note)
}

func TestEvaluateSignal_InvalidSignal(t *testing.T) {
	eval := New(&stubQuotes{}, &scriptedHistory{}, Config{})

	sig := walkSignal()
	sig.Symbol = ""
	_, err := eval.EvaluateSignal(context.Background(), sig)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptySymbol)
}

func TestEvaluateSignal_HistoryFailure(t *testing.T) {
	quotes := &stubQuotes{quote: domain.Quote{Bid: 100.9, Ask: 101}}
	history := &scriptedHistory{barsErr: errors.New("gateway down")}
	eval := New(quotes, history, Config{})

	_, err := eval.EvaluateSignal(context.Background(), walkSignal())
	assert.Error(t, err)
}

func TestEvaluateSignal_TieResolvedWithTicks(t *testing.T) {
	quotes := &stubQuotes{quote: domain.Quote{Bid: 100.9, Ask: 101}}
	history := &scriptedHistory{
		// Una sola vela toca TP y SL; el primer tick concluyente marca TP.
		bars:  makeBars([2]float64{111, 94}),
		ticks: []domain.Tick{{Time: t0.Add(5 * time.Second), Bid: 110.0, Ask: 110.2}},
	}
	eval := New(quotes, history, Config{})

	outcome, err := eval.EvaluateSignal(context.Background(), walkSignal())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusTP, outcome.Status)
	assert.Equal(t, "tie → TP first (tick)", outcome.Note)
}
