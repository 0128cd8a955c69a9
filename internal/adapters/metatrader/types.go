package metatrader

// Wire DTOs del gateway MT5. Los timestamps llegan como epoch: segundos
// para velas y deals, milisegundos para ticks (convención del terminal).

type tickResponse struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	TimeMS int64   `json:"time_ms"`
}

type barDTO struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

type tickDTO struct {
	TimeMS int64   `json:"time_ms"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
}

type positionDTO struct {
	Ticket    int64   `json:"ticket"`
	Symbol    string  `json:"symbol"`
	Type      string  `json:"type"` // "buy" | "sell"
	Volume    float64 `json:"volume"`
	OpenPrice float64 `json:"price_open"`
	OpenTime  int64   `json:"time"`
	TP        float64 `json:"tp"`
	SL        float64 `json:"sl"`
}

type dealDTO struct {
	Ticket     int64   `json:"ticket"`
	PositionID int64   `json:"position_id"`
	Price      float64 `json:"price"`
	Profit     float64 `json:"profit"`
	Volume     float64 `json:"volume"`
	Time       int64   `json:"time"`
}

type orderDTO struct {
	Ticket int64  `json:"ticket"`
	State  string `json:"state"` // "placed" | "filled" | "cancelled"
}

type placeOrderDTO struct {
	Symbol  string  `json:"symbol"`
	Side    string  `json:"side"`
	Kind    string  `json:"kind"` // "market" | "pending_above" | "pending_below"
	Price   float64 `json:"price,omitempty"`
	Volume  float64 `json:"volume"`
	TP      float64 `json:"tp"`
	SL      float64 `json:"sl"`
	Comment string  `json:"comment,omitempty"`
}

type placedOrderResponse struct {
	Retcode int     `json:"retcode"`
	Order   int64   `json:"order"`
	Deal    int64   `json:"deal"`
	Price   float64 `json:"price"`
	Comment string  `json:"comment"`
}

type cancelResponse struct {
	Retcode int    `json:"retcode"`
	Comment string `json:"comment"`
}

// Retcodes del terminal que cuentan como aceptación.
const (
	retcodeDone   = 10009
	retcodePlaced = 10008
)
