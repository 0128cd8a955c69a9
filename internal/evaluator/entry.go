package evaluator

import (
	"github.com/alejandrodnm/sigmon/internal/domain"
)

const (
	// defaultPriceTolerance es el margen aplicado antes de preferir una
	// orden pendiente sobre una entrada a mercado. Con 0, cualquier
	// distancia a la banda convierte la entrada en pendiente.
	defaultPriceTolerance = 0.0
)

// EntryConfig controla la decisión de entrada.
type EntryConfig struct {
	// PriceTolerance: la banda tiene que estar a más de esta distancia
	// del precio actual para elegir PENDING en lugar de MARKET.
	PriceTolerance float64
	// RevalidatePending: si al momento de enviar la orden el precio ya
	// atravesó el nivel pendiente, la decisión se degrada a MARKET.
	RevalidatePending bool
}

// EntryResolver decide si una señal se entra a mercado o con orden
// pendiente, y a qué precio de referencia. Función pura de sus entradas:
// no consulta al bróker ni tiene efectos secundarios.
type EntryResolver struct {
	cfg EntryConfig
}

// NewEntryResolver crea un resolver con la configuración dada.
func NewEntryResolver(cfg EntryConfig) *EntryResolver {
	if cfg.PriceTolerance < 0 {
		cfg.PriceTolerance = defaultPriceTolerance
	}
	return &EntryResolver{cfg: cfg}
}

// Decide clasifica la entrada de la señal contra la cotización actual.
// hasQuote=false degrada a entrada a mercado sin precio de referencia;
// el caller debe registrar la nota de confianza degradada que devuelve.
func (r *EntryResolver) Decide(sig domain.Signal, q domain.Quote, hasQuote bool) (domain.EntryDecision, string) {
	if !hasQuote {
		return domain.EntryDecision{Kind: domain.EntryImmediate}, "no quote: degraded to best-effort market entry"
	}

	tol := r.cfg.PriceTolerance

	if sig.Direction == domain.Long {
		ask := q.Ask
		switch {
		case sig.EntryLow > ask+tol:
			// Banda entera por encima del ask → stop de compra en el borde inferior.
			return domain.EntryDecision{Kind: domain.EntryPendingAbove, Price: sig.EntryLow, HasPrice: true}, ""
		case sig.EntryHigh < ask-tol:
			// Banda entera por debajo del ask → limit de compra en el borde superior.
			return domain.EntryDecision{Kind: domain.EntryPendingBelow, Price: sig.EntryHigh, HasPrice: true}, ""
		default:
			return domain.EntryDecision{Kind: domain.EntryImmediate, Price: ask, HasPrice: true}, ""
		}
	}

	bid := q.Bid
	switch {
	case sig.EntryHigh < bid-tol:
		// Banda entera por debajo del bid → stop de venta en el borde superior.
		return domain.EntryDecision{Kind: domain.EntryPendingBelow, Price: sig.EntryHigh, HasPrice: true}, ""
	case sig.EntryLow > bid+tol:
		// Banda entera por encima del bid → limit de venta en el borde inferior.
		return domain.EntryDecision{Kind: domain.EntryPendingAbove, Price: sig.EntryLow, HasPrice: true}, ""
	default:
		return domain.EntryDecision{Kind: domain.EntryImmediate, Price: bid, HasPrice: true}, ""
	}
}

// Revalidate degrada una decisión pendiente a MARKET si el precio ya
// atravesó el nivel pendiente al momento de enviar la orden. Sin efecto
// si RevalidatePending está desactivado o la decisión no es pendiente.
func (r *EntryResolver) Revalidate(d domain.EntryDecision, dir domain.Direction, q domain.Quote) domain.EntryDecision {
	if !r.cfg.RevalidatePending || !d.Pending() {
		return d
	}

	ref := q.Side(dir)
	crossed := (d.Kind == domain.EntryPendingAbove && ref >= d.Price) ||
		(d.Kind == domain.EntryPendingBelow && ref <= d.Price)

	if crossed {
		return domain.EntryDecision{Kind: domain.EntryImmediate, Price: ref, HasPrice: true}
	}
	return d
}
