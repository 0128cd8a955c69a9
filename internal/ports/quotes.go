package ports

import (
	"context"
	"errors"

	"github.com/alejandrodnm/sigmon/internal/domain"
)

// ErrNoQuote indica que el bróker no tiene cotización para el símbolo.
// No es fatal: el resolver degrada a entrada a mercado con nota.
var ErrNoQuote = errors.New("no quote available")

// QuoteProvider obtiene el mejor bid/ask actual de un símbolo.
type QuoteProvider interface {
	// BestBidAsk devuelve la cotización actual, o ErrNoQuote si el
	// símbolo no tiene tick disponible en este momento.
	BestBidAsk(ctx context.Context, symbol string) (domain.Quote, error)
}
