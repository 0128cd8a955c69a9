package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

func openTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleOutcome(messageID int64, status domain.OutcomeStatus, profit float64) domain.Outcome {
	opened := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	hit := opened.Add(2 * time.Hour)
	return domain.Outcome{
		MessageID:           messageID,
		Symbol:              "XAUUSD.S",
		Direction:           domain.Long,
		Status:              status,
		HitAt:               &hit,
		EntryKind:           domain.EntryImmediate,
		EntryPrice:          101,
		TP:                  110,
		SL:                  95,
		MarketPriceAtSignal: 100.8,
		OpenedAt:            opened,
		Profit:              profit,
		Note:                "",
	}
}

func TestSaveAndGetOutcomes(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveOutcome(ctx, sampleOutcome(1, domain.StatusTP, 90)))
	require.NoError(t, s.SaveOutcome(ctx, sampleOutcome(2, domain.StatusSL, -60)))

	now := time.Now().UTC()
	got, err := s.GetOutcomes(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := map[int64]domain.Outcome{got[0].MessageID: got[0], got[1].MessageID: got[1]}
	tp := byID[1]
	assert.Equal(t, domain.StatusTP, tp.Status)
	assert.Equal(t, "XAUUSD.S", tp.Symbol)
	assert.Equal(t, domain.Long, tp.Direction)
	assert.Equal(t, domain.EntryImmediate, tp.EntryKind)
	assert.Equal(t, 101.0, tp.EntryPrice)
	require.NotNil(t, tp.HitAt)
	assert.Nil(t, tp.ClosedAt)
}

func TestSaveOutcome_UpsertRewritesRow(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	first := sampleOutcome(7, domain.StatusNone, 0)
	first.Note = "timeout"
	first.HitAt = nil
	require.NoError(t, s.SaveOutcome(ctx, first))

	// Reevaluating the same (message_id, target_idx) replaces the verdict.
	require.NoError(t, s.SaveOutcome(ctx, sampleOutcome(7, domain.StatusTP, 90)))

	now := time.Now().UTC()
	got, err := s.GetOutcomes(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StatusTP, got[0].Status)
	assert.Empty(t, got[0].Note)
}

func TestSaveOutcome_TargetIndexKeepsRowsApart(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	tp1 := sampleOutcome(7, domain.StatusTP, 90)
	tp2 := sampleOutcome(7, domain.StatusNone, 0)
	tp2.TargetIndex = 1
	require.NoError(t, s.SaveOutcome(ctx, tp1))
	require.NoError(t, s.SaveOutcome(ctx, tp2))

	now := time.Now().UTC()
	got, err := s.GetOutcomes(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetOutcomes_RangeFilter(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveOutcome(ctx, sampleOutcome(1, domain.StatusTP, 90)))

	past := time.Now().UTC().Add(-48 * time.Hour)
	got, err := s.GetOutcomes(ctx, past.Add(-time.Hour), past)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStats(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveOutcome(ctx, sampleOutcome(1, domain.StatusTP, 90)))
	require.NoError(t, s.SaveOutcome(ctx, sampleOutcome(2, domain.StatusTP, 45)))
	require.NoError(t, s.SaveOutcome(ctx, sampleOutcome(3, domain.StatusSL, -60)))
	require.NoError(t, s.SaveOutcome(ctx, sampleOutcome(4, domain.StatusNone, 0)))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.TPCount)
	assert.Equal(t, 1, stats.SLCount)
	assert.Equal(t, 1, stats.NoneHits)
	assert.InDelta(t, 75.0, stats.NetPL, 1e-9)
	// Win rate only counts resolved trades: 2 TP of 3 resolved.
	assert.InDelta(t, 2.0/3.0, stats.WinRate, 1e-9)
}

func TestStats_EmptyDB(t *testing.T) {
	s := openTestDB(t)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.WinRate)
}
