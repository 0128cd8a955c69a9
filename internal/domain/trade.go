package domain

import "time"

// TradeHandle liga una señal a su ejecución en el bróker. Es propiedad
// exclusiva del monitor que lo sigue hasta que el trade resuelve.
type TradeHandle struct {
	ID                  string // uuid local, para logs y correlación
	Signal              Signal
	Ticket              int64   // ticket de la posición (o de la orden primaria)
	SiblingTickets      []int64 // órdenes pendientes hermanas del mismo grupo
	SignalEntryPrice    float64 // precio de entrada de referencia según la decisión
	ExecutedPrice       float64 // precio real de apertura reportado por el bróker
	MarketPriceAtSignal float64 // precio de mercado al emitirse la señal (slippage)
	OpenedAt            time.Time
	Entry               EntryDecision
	// Parent distingue un handle con posición ya abierta de un grupo de
	// órdenes pendientes hermanas del que como mucho una llegará a llenarse.
	Parent bool
}

// Position es una posición abierta reportada por el bróker.
type Position struct {
	Ticket    int64
	Symbol    string
	Direction Direction
	Volume    float64
	OpenPrice float64
	OpenedAt  time.Time
	CurrentTP float64
	CurrentSL float64
}

// Deal es una transacción histórica de cierre de una posición.
type Deal struct {
	ID         int64
	PositionID int64
	Price      float64
	Profit     float64
	Volume     float64
	Time       time.Time
}

// PlaceOrderRequest describe la orden a enviar al bróker.
type PlaceOrderRequest struct {
	Symbol    string
	Direction Direction
	Kind      EntryKind
	Price     float64 // precio pendiente; ignorado para órdenes a mercado
	Volume    float64
	TP        float64
	SL        float64
	Comment   string
}

// PlacedOrder es la respuesta del bróker a una orden aceptada.
type PlacedOrder struct {
	Ticket     int64
	DealID     int64
	Price      float64
	Comment    string
	ExecutedAt time.Time
}
