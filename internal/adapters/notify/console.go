package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

// Console implementa ports.Notifier imprimiendo a stdout.
type Console struct {
	out   io.Writer
	table bool // tabla completa vs línea compacta por outcome
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyOutcome imprime una línea por veredicto resuelto.
func (c *Console) NotifyOutcome(_ context.Context, o domain.Outcome) error {
	now := time.Now().Format("15:04:05")
	hit := "-"
	if o.HitAt != nil {
		hit = o.HitAt.Format("2006-01-02 15:04")
	}
	fmt.Fprintf(c.out, "[%s] msg=%d %s %s → %s (entry=%s @ %.2f, hit=%s)",
		now, o.MessageID, o.Symbol, o.Direction, o.Status, o.EntryKind, o.EntryPrice, hit)
	if o.Note != "" {
		fmt.Fprintf(c.out, " [%s]", o.Note)
	}
	fmt.Fprintln(c.out)
	return nil
}

// NotifySummary imprime el lote de veredictos y sus estadísticas.
func (c *Console) NotifySummary(_ context.Context, outcomes []domain.Outcome, stats domain.OutcomeStats) error {
	now := time.Now().Format("15:04:05")

	if len(outcomes) == 0 {
		fmt.Fprintf(c.out, "[%s] no outcomes recorded\n", now)
		return nil
	}

	fmt.Fprintf(c.out, "\n[%s] %d outcomes — TP:%d SL:%d none:%d win:%.0f%% P&L:%.2f\n",
		now, stats.Total, stats.TPCount, stats.SLCount, stats.NoneHits, stats.WinRate*100, stats.NetPL)

	if c.table {
		c.printTable(outcomes)
	}
	return nil
}

// printTable imprime la tabla completa de veredictos.
func (c *Console) printTable(outcomes []domain.Outcome) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Msg", "Symbol", "Dir", "Entry", "Price", "TP", "SL", "Status", "Hit", "Profit", "Note")

	for _, o := range outcomes {
		hit := "-"
		if o.HitAt != nil {
			hit = o.HitAt.Format("01-02 15:04")
		}
		table.Append(
			fmt.Sprintf("%d", o.MessageID),
			o.Symbol,
			string(o.Direction),
			string(o.EntryKind),
			fmt.Sprintf("%.2f", o.EntryPrice),
			fmt.Sprintf("%.2f", o.TP),
			fmt.Sprintf("%.2f", o.SL),
			string(o.Status),
			hit,
			fmt.Sprintf("%.2f", o.Profit),
			o.Note,
		)
	}

	table.Render()
}
