package livehttp

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"statarb/internal/engine"
	"statarb/internal/store/model"
)

// StatusProvider is implemented by the engine.
type StatusProvider interface {
	LastStatus() engine.CycleStatus
	Positions() []engine.Position
}

// TradeReader is implemented by the journal store. Nil disables /api/trades.
type TradeReader interface {
	Recent(ctx context.Context, limit int) ([]model.TradeModel, error)
}

// Router exposes the live query endpoints.
type Router struct {
	status StatusProvider
	trades TradeReader
}

func NewRouter(status StatusProvider, trades TradeReader) *Router {
	return &Router{status: status, trades: trades}
}

// Register mounts the endpoints under the given group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/snapshot", r.handleSnapshot)
	group.GET("/positions", r.handlePositions)
	if r.trades != nil {
		group.GET("/trades", r.handleTrades)
	}
}

func (r *Router) handleSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, r.status.LastStatus())
}

func (r *Router) handlePositions(c *gin.Context) {
	positions := r.status.Positions()
	if positions == nil {
		positions = []engine.Position{}
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions, "count": len(positions)})
}

func (r *Router) handleTrades(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	rows, err := r.trades.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": rows, "count": len(rows)})
}
