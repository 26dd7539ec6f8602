package httpapi

// HealthResponse is the liveness probe's body.
type HealthResponse struct {
	Status string `json:"status"`
}

// SymbolsResponse lists every symbol the engine currently has a book for.
type SymbolsResponse struct {
	Symbols []string `json:"symbols"`
}

// OrderBookLevel mirrors one aggregated price level.
type OrderBookLevel struct {
	Price  int64 `json:"price"`
	Volume int64 `json:"volume"`
	Orders int   `json:"orders"`
}

// OrderBookResponse is the read-only depth snapshot for one symbol.
type OrderBookResponse struct {
	Symbol string           `json:"symbol"`
	Bids   []OrderBookLevel `json:"bids"`
	Asks   []OrderBookLevel `json:"asks"`
	Spread int64            `json:"spread"`
}

// StatsResponse surfaces the manager's running counters.
type StatsResponse struct {
	TotalOrdersReceived  int64 `json:"total_orders_received"`
	TotalOrdersAccepted  int64 `json:"total_orders_accepted"`
	TotalOrdersRejected  int64 `json:"total_orders_rejected"`
	TotalOrdersCancelled int64 `json:"total_orders_cancelled"`
	TotalExecutions      int64 `json:"total_executions"`
	TotalVolume          int64 `json:"total_volume"`
}

// OrderStatusResponse reports one client order's current bookkeeping.
type OrderStatusResponse struct {
	ClientOrderID   uint64 `json:"client_order_id"`
	ExchangeOrderID uint64 `json:"exchange_order_id"`
	Symbol          string `json:"symbol"`
	Side            string `json:"side"`
	Status          string `json:"status"`
	Price           int64  `json:"price"`
	OriginalQty     int64  `json:"original_quantity"`
	FilledQty       int64  `json:"filled_quantity"`
	RemainingQty    int64  `json:"remaining_quantity"`
}

// depthQuery binds the optional ?depth= query param on the orderbook
// endpoint, validated with the same go-playground/validator the rest
// of this stack uses for request binding.
type depthQuery struct {
	Depth int `form:"depth" validate:"gte=0,lte=100"`
}
