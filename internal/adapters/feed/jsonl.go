// Package feed lee señales ya parseadas desde un archivo JSON-lines.
// Es el sustituto mínimo del ingestor de mensajes (excluido del core):
// cualquier listener externo puede volcar señales en este formato.
package feed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

// signalLine es el formato de una línea del feed.
type signalLine struct {
	MessageID   int64   `json:"message_id"`
	CreatedAt   string  `json:"created_at"` // RFC 3339
	Symbol      string  `json:"symbol"`
	Direction   string  `json:"direction"`
	EntryLow    float64 `json:"entry_low"`
	EntryHigh   float64 `json:"entry_high"`
	TP          float64 `json:"tp"`
	SL          float64 `json:"sl"`
	TargetIndex int     `json:"target_index"`
	RawText     string  `json:"raw_text"`
}

// ReadFile carga todas las señales del archivo dado. Las líneas
// malformadas se loguean y se saltan: una línea corrupta no invalida el
// resto del feed.
func ReadFile(path string) ([]domain.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed.ReadFile: open %q: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parsea señales del reader, una por línea.
func Read(r io.Reader) ([]domain.Signal, error) {
	var signals []domain.Signal

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		sig, err := parseLine(line)
		if err != nil {
			slog.Warn("skipping malformed feed line", "line", lineNo, "err", err)
			continue
		}
		signals = append(signals, sig)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("feed.Read: scan: %w", err)
	}
	return signals, nil
}

func parseLine(line string) (domain.Signal, error) {
	var sl signalLine
	if err := json.Unmarshal([]byte(line), &sl); err != nil {
		return domain.Signal{}, fmt.Errorf("decode: %w", err)
	}

	dir, err := domain.ParseDirection(sl.Direction)
	if err != nil {
		return domain.Signal{}, err
	}

	createdAt, err := time.Parse(time.RFC3339, sl.CreatedAt)
	if err != nil {
		return domain.Signal{}, fmt.Errorf("created_at: %w", err)
	}

	return domain.Signal{
		MessageID:   sl.MessageID,
		CreatedAt:   createdAt.UTC(),
		Symbol:      strings.ToUpper(strings.TrimSpace(sl.Symbol)),
		Direction:   dir,
		EntryLow:    sl.EntryLow,
		EntryHigh:   sl.EntryHigh,
		TP:          sl.TP,
		SL:          sl.SL,
		TargetIndex: sl.TargetIndex,
		RawText:     sl.RawText,
	}, nil
}
