package storage

// sqlite.go — persistencia de veredictos, una fila por señal evaluada.
//
// Estrategia:
//   - `outcomes`: UNA fila por (message_id, target_idx) con UPSERT.
//     Reevaluar una señal reescribe su fila en lugar de duplicarla.
//   - Prune automático al arrancar: veredictos más viejos que 90 días.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS outcomes (
    message_id     INTEGER NOT NULL,
    target_idx     INTEGER NOT NULL DEFAULT 0,
    symbol         TEXT    NOT NULL,
    direction      TEXT    NOT NULL,
    status         TEXT    NOT NULL,
    hit_at         DATETIME,
    entry_kind     TEXT    NOT NULL,
    entry_price    REAL    NOT NULL DEFAULT 0,
    tp             REAL    NOT NULL DEFAULT 0,
    sl             REAL    NOT NULL DEFAULT 0,
    market_price   REAL    NOT NULL DEFAULT 0,
    opened_at      DATETIME NOT NULL,
    closed_at      DATETIME,
    profit         REAL    NOT NULL DEFAULT 0,
    note           TEXT    NOT NULL DEFAULT '',
    recorded_at    DATETIME NOT NULL,
    PRIMARY KEY (message_id, target_idx)
);

CREATE INDEX IF NOT EXISTS idx_outcomes_recorded ON outcomes(recorded_at DESC);
CREATE INDEX IF NOT EXISTS idx_outcomes_status   ON outcomes(status);
`

const retentionOutcomes = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.OutcomeStorage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada,
// aplica el schema y limpia filas antiguas.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveOutcome hace upsert del veredicto por (message_id, target_idx).
func (s *SQLiteStorage) SaveOutcome(ctx context.Context, o domain.Outcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes
			(message_id, target_idx, symbol, direction, status, hit_at,
			 entry_kind, entry_price, tp, sl, market_price,
			 opened_at, closed_at, profit, note, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id, target_idx) DO UPDATE SET
			status      = excluded.status,
			hit_at      = excluded.hit_at,
			entry_kind  = excluded.entry_kind,
			entry_price = excluded.entry_price,
			closed_at   = excluded.closed_at,
			profit      = excluded.profit,
			note        = excluded.note,
			recorded_at = excluded.recorded_at`,
		o.MessageID, o.TargetIndex, o.Symbol, string(o.Direction), string(o.Status), nullTime(o.HitAt),
		string(o.EntryKind), o.EntryPrice, o.TP, o.SL, o.MarketPriceAtSignal,
		o.OpenedAt.UTC(), nullTime(o.ClosedAt), o.Profit, o.Note, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveOutcome: message %d: %w", o.MessageID, err)
	}
	return nil
}

// GetOutcomes devuelve los veredictos registrados en [from, to],
// ordenados por fecha de registro descendente.
func (s *SQLiteStorage) GetOutcomes(ctx context.Context, from, to time.Time) ([]domain.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message_id, target_idx, symbol, direction, status, hit_at,
		       entry_kind, entry_price, tp, sl, market_price,
		       opened_at, closed_at, profit, note
		FROM outcomes
		WHERE recorded_at BETWEEN ? AND ?
		ORDER BY recorded_at DESC`,
		from.UTC(), to.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("storage.GetOutcomes: query: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.Outcome
	for rows.Next() {
		var (
			o                 domain.Outcome
			direction, status string
			entryKind         string
			hitAt, closedAt   sql.NullTime
		)
		if err := rows.Scan(
			&o.MessageID, &o.TargetIndex, &o.Symbol, &direction, &status, &hitAt,
			&entryKind, &o.EntryPrice, &o.TP, &o.SL, &o.MarketPriceAtSignal,
			&o.OpenedAt, &closedAt, &o.Profit, &o.Note,
		); err != nil {
			return nil, fmt.Errorf("storage.GetOutcomes: scan: %w", err)
		}
		o.Direction = domain.Direction(direction)
		o.Status = domain.OutcomeStatus(status)
		o.EntryKind = domain.EntryKind(entryKind)
		if hitAt.Valid {
			t := hitAt.Time.UTC()
			o.HitAt = &t
		}
		if closedAt.Valid {
			t := closedAt.Time.UTC()
			o.ClosedAt = &t
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// Stats agrega los veredictos registrados.
func (s *SQLiteStorage) Stats(ctx context.Context) (domain.OutcomeStats, error) {
	var stats domain.OutcomeStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'TP' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'SL' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status = 'NONE' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(profit), 0)
		FROM outcomes`,
	).Scan(&stats.Total, &stats.TPCount, &stats.SLCount, &stats.NoneHits, &stats.NetPL)
	if err != nil {
		return domain.OutcomeStats{}, fmt.Errorf("storage.Stats: %w", err)
	}

	if resolved := stats.TPCount + stats.SLCount; resolved > 0 {
		stats.WinRate = float64(stats.TPCount) / float64(resolved)
	}
	return stats, nil
}

// Close cierra la conexión.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionOutcomes)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM outcomes WHERE recorded_at < ?`, cutoff); err != nil {
		// No bloquea el arranque: el prune volverá a intentarse en el próximo.
		slog.Warn("storage: prune failed", "err", err)
	}
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
