package metatrader

import (
	"strings"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

func toBar(d barDTO) domain.Bar {
	return domain.Bar{
		Time:  time.Unix(d.Time, 0).UTC(),
		Open:  d.Open,
		High:  d.High,
		Low:   d.Low,
		Close: d.Close,
	}
}

func toTick(d tickDTO) domain.Tick {
	return domain.Tick{
		Time: time.UnixMilli(d.TimeMS).UTC(),
		Bid:  d.Bid,
		Ask:  d.Ask,
	}
}

func toPosition(d positionDTO) domain.Position {
	dir := domain.Long
	if strings.EqualFold(d.Type, "sell") {
		dir = domain.Short
	}
	return domain.Position{
		Ticket:    d.Ticket,
		Symbol:    d.Symbol,
		Direction: dir,
		Volume:    d.Volume,
		OpenPrice: d.OpenPrice,
		OpenedAt:  time.Unix(d.OpenTime, 0).UTC(),
		CurrentTP: d.TP,
		CurrentSL: d.SL,
	}
}

func toDeal(d dealDTO) domain.Deal {
	return domain.Deal{
		ID:         d.Ticket,
		PositionID: d.PositionID,
		Price:      d.Price,
		Profit:     d.Profit,
		Volume:     d.Volume,
		Time:       time.Unix(d.Time, 0).UTC(),
	}
}

// wireKind traduce el EntryKind de dominio al identificador del gateway.
func wireKind(k domain.EntryKind) string {
	switch k {
	case domain.EntryPendingAbove:
		return "pending_above"
	case domain.EntryPendingBelow:
		return "pending_below"
	default:
		return "market"
	}
}

func wireSide(d domain.Direction) string {
	if d == domain.Short {
		return "sell"
	}
	return "buy"
}
