package metatrader

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
	"github.com/alejandrodnm/sigmon/internal/ports"
)

// BestBidAsk implementa ports.QuoteProvider. Un gateway sin tick para el
// símbolo responde 200 con bid/ask a cero; eso se traduce a ErrNoQuote.
func (c *Client) BestBidAsk(ctx context.Context, symbol string) (domain.Quote, error) {
	var resp tickResponse
	u := fmt.Sprintf("%s/tick?%s", c.baseURL, url.Values{"symbol": {symbol}}.Encode())
	if err := c.get(ctx, c.marketLimiter, u, &resp); err != nil {
		return domain.Quote{}, fmt.Errorf("metatrader.BestBidAsk: %s: %w", symbol, err)
	}
	if resp.Bid == 0 && resp.Ask == 0 {
		return domain.Quote{}, fmt.Errorf("metatrader.BestBidAsk: %s: %w", symbol, ports.ErrNoQuote)
	}
	return domain.Quote{Bid: resp.Bid, Ask: resp.Ask}, nil
}

// Bars implementa ports.HistoryProvider. El gateway devuelve las velas ya
// ordenadas ascendentemente; una ventana sin datos devuelve lista vacía.
func (c *Client) Bars(ctx context.Context, symbol string, interval domain.BarInterval, from, to time.Time) ([]domain.Bar, error) {
	q := url.Values{
		"symbol":    {symbol},
		"timeframe": {string(interval)},
		"from":      {fmt.Sprintf("%d", from.Unix())},
		"to":        {fmt.Sprintf("%d", to.Unix())},
	}

	var dtos []barDTO
	u := fmt.Sprintf("%s/bars?%s", c.baseURL, q.Encode())
	if err := c.get(ctx, c.historyLimiter, u, &dtos); err != nil {
		return nil, fmt.Errorf("metatrader.Bars: %s: %w", symbol, err)
	}

	bars := make([]domain.Bar, 0, len(dtos))
	for _, d := range dtos {
		bars = append(bars, toBar(d))
	}
	return bars, nil
}

// Ticks implementa ports.HistoryProvider para la ventana de tie-break.
func (c *Client) Ticks(ctx context.Context, symbol string, from, to time.Time) ([]domain.Tick, error) {
	q := url.Values{
		"symbol": {symbol},
		"from":   {fmt.Sprintf("%d", from.UnixMilli())},
		"to":     {fmt.Sprintf("%d", to.UnixMilli())},
	}

	var dtos []tickDTO
	u := fmt.Sprintf("%s/ticks?%s", c.baseURL, q.Encode())
	if err := c.get(ctx, c.historyLimiter, u, &dtos); err != nil {
		return nil, fmt.Errorf("metatrader.Ticks: %s: %w", symbol, err)
	}

	ticks := make([]domain.Tick, 0, len(dtos))
	for _, d := range dtos {
		ticks = append(ticks, toTick(d))
	}
	return ticks, nil
}
