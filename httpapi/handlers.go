package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tembolo1284/MatchX/book"
	"github.com/tembolo1284/MatchX/manager"
	"github.com/tembolo1284/MatchX/utils"
)

// Handler exposes a read-only debug view over a running Manager: no
// route here places, cancels, or replaces an order, since order entry
// travels over the binary wire protocol, not HTTP.
type Handler struct {
	mgr       *manager.Manager
	validator *validator.Validate
}

func NewHandler(mgr *manager.Manager) *Handler {
	return &Handler{mgr: mgr, validator: utils.GetValidator()}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) Symbols(c *gin.Context) {
	c.JSON(http.StatusOK, SymbolsResponse{Symbols: h.mgr.Symbols()})
}

func (h *Handler) OrderBook(c *gin.Context) {
	symbol := c.Param("symbol")

	q := depthQuery{Depth: 10}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid depth parameter"})
		return
	}
	if q.Depth == 0 {
		q.Depth = 10
	}
	if err := h.validator.Struct(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth must be between 0 and 100"})
		return
	}

	bids, asks, spread, ok := h.mgr.BookDepth(symbol, q.Depth)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol"})
		return
	}

	resp := OrderBookResponse{
		Symbol: symbol,
		Bids:   toLevels(bids),
		Asks:   toLevels(asks),
		Spread: spread,
	}
	c.JSON(http.StatusOK, resp)
}

func toLevels(stats []book.LevelStats) []OrderBookLevel {
	out := make([]OrderBookLevel, 0, len(stats))
	for _, s := range stats {
		out = append(out, OrderBookLevel{Price: s.Price, Volume: s.TotalVolume, Orders: s.OrderCount})
	}
	return out
}

func (h *Handler) Stats(c *gin.Context) {
	s := h.mgr.Stats()
	c.JSON(http.StatusOK, StatsResponse{
		TotalOrdersReceived:  s.TotalOrdersReceived,
		TotalOrdersAccepted:  s.TotalOrdersAccepted,
		TotalOrdersRejected:  s.TotalOrdersRejected,
		TotalOrdersCancelled: s.TotalOrdersCancelled,
		TotalExecutions:      s.TotalExecutions,
		TotalVolume:          s.TotalVolume,
	})
}

func (h *Handler) OrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("client_order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_order_id must be numeric"})
		return
	}

	order, ok := h.mgr.GetOrder(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, OrderStatusResponse{
		ClientOrderID:   order.ClientOrderID,
		ExchangeOrderID: uint64(order.ExchangeOrderID),
		Symbol:          order.Symbol,
		Side:            order.Side.String(),
		Status:          order.Status.String(),
		Price:           order.Price,
		OriginalQty:     order.OriginalQuantity,
		FilledQty:       order.FilledQuantity,
		RemainingQty:    order.RemainingQty,
	})
}

