package ports

import (
	"context"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

// PositionSource reports live broker state for a trade ticket.
// The broker is treated as an externally synchronized resource: the core
// only issues read-only polls, and tickets are disjoint across monitors.
type PositionSource interface {
	// OpenPositions returns the positions still open for the ticket.
	// An empty slice means the position is no longer live.
	OpenPositions(ctx context.Context, ticket int64) ([]domain.Position, error)

	// ClosingDeals returns the historical closing transactions for a
	// position, oldest first. Empty while the broker report lags.
	ClosingDeals(ctx context.Context, positionID int64) ([]domain.Deal, error)
}

// OrderExecutor places and cancels orders on the broker.
type OrderExecutor interface {
	// PlaceOrder submits a market or pending order for a signal.
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.PlacedOrder, error)

	// CancelOrder cancels a pending order by ticket. Best effort: a
	// failure is reported to the caller but never retried internally.
	CancelOrder(ctx context.Context, ticket int64) error

	// OpenOrders returns the pending-order tickets still live among the
	// given ones. Used before attempting sibling cleanup.
	OpenOrders(ctx context.Context, tickets []int64) ([]int64, error)
}
