package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/tembolo1284/MatchX/manager"
)

// RegisterRoutes wires the debug API's routes onto router.
func RegisterRoutes(router *gin.Engine, mgr *manager.Manager) {
	h := NewHandler(mgr)

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/symbols", h.Symbols)
		api.GET("/orderbook/:symbol", h.OrderBook)
		api.GET("/stats", h.Stats)
		api.GET("/orders/:client_order_id", h.OrderStatus)
	}
}
