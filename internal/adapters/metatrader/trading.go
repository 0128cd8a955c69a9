package metatrader

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

// OpenPositions implementa ports.PositionSource. Lista vacía significa
// que la posición ya no está viva; nunca es un error.
func (c *Client) OpenPositions(ctx context.Context, ticket int64) ([]domain.Position, error) {
	var dtos []positionDTO
	u := fmt.Sprintf("%s/positions?%s", c.baseURL, url.Values{"ticket": {fmt.Sprintf("%d", ticket)}}.Encode())
	if err := c.get(ctx, c.marketLimiter, u, &dtos); err != nil {
		return nil, fmt.Errorf("metatrader.OpenPositions: ticket %d: %w", ticket, err)
	}

	positions := make([]domain.Position, 0, len(dtos))
	for _, d := range dtos {
		positions = append(positions, toPosition(d))
	}
	return positions, nil
}

// ClosingDeals implementa ports.PositionSource: deals históricos de
// cierre de la posición, el más antiguo primero. Vacío mientras el
// reporte del terminal va con retraso.
func (c *Client) ClosingDeals(ctx context.Context, positionID int64) ([]domain.Deal, error) {
	var dtos []dealDTO
	u := fmt.Sprintf("%s/deals?%s", c.baseURL, url.Values{"position": {fmt.Sprintf("%d", positionID)}}.Encode())
	if err := c.get(ctx, c.marketLimiter, u, &dtos); err != nil {
		return nil, fmt.Errorf("metatrader.ClosingDeals: position %d: %w", positionID, err)
	}

	deals := make([]domain.Deal, 0, len(dtos))
	for _, d := range dtos {
		deals = append(deals, toDeal(d))
	}
	return deals, nil
}

// PlaceOrder implementa ports.OrderExecutor.
func (c *Client) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.PlacedOrder, error) {
	body := placeOrderDTO{
		Symbol:  req.Symbol,
		Side:    wireSide(req.Direction),
		Kind:    wireKind(req.Kind),
		Price:   req.Price,
		Volume:  req.Volume,
		TP:      req.TP,
		SL:      req.SL,
		Comment: req.Comment,
	}

	var resp placedOrderResponse
	if err := c.post(ctx, c.tradingLimiter, c.baseURL+"/order", body, &resp); err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("metatrader.PlaceOrder: %s: %w", req.Symbol, err)
	}
	if resp.Retcode != retcodeDone && resp.Retcode != retcodePlaced {
		return domain.PlacedOrder{}, fmt.Errorf("metatrader.PlaceOrder: %s: rejected retcode=%d comment=%q",
			req.Symbol, resp.Retcode, resp.Comment)
	}

	return domain.PlacedOrder{
		Ticket:     resp.Order,
		DealID:     resp.Deal,
		Price:      resp.Price,
		Comment:    resp.Comment,
		ExecutedAt: time.Now().UTC(),
	}, nil
}

// CancelOrder implementa ports.OrderExecutor. Best effort: el retcode de
// rechazo se devuelve como error y el caller decide si importa.
func (c *Client) CancelOrder(ctx context.Context, ticket int64) error {
	var resp cancelResponse
	body := map[string]int64{"ticket": ticket}
	if err := c.post(ctx, c.tradingLimiter, c.baseURL+"/order/cancel", body, &resp); err != nil {
		return fmt.Errorf("metatrader.CancelOrder: ticket %d: %w", ticket, err)
	}
	if resp.Retcode != retcodeDone {
		return fmt.Errorf("metatrader.CancelOrder: ticket %d: rejected retcode=%d comment=%q",
			ticket, resp.Retcode, resp.Comment)
	}
	return nil
}

// OpenOrders implementa ports.OrderExecutor: filtra qué tickets de los
// dados siguen vivos como órdenes pendientes.
func (c *Client) OpenOrders(ctx context.Context, tickets []int64) ([]int64, error) {
	live := make([]int64, 0, len(tickets))
	for _, ticket := range tickets {
		var dtos []orderDTO
		u := fmt.Sprintf("%s/orders?%s", c.baseURL, url.Values{"ticket": {fmt.Sprintf("%d", ticket)}}.Encode())
		if err := c.get(ctx, c.marketLimiter, u, &dtos); err != nil {
			return nil, fmt.Errorf("metatrader.OpenOrders: ticket %d: %w", ticket, err)
		}
		for _, d := range dtos {
			if d.State == "placed" {
				live = append(live, d.Ticket)
			}
		}
	}
	return live, nil
}
