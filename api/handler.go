package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"arbscout/internal/tools"

	"github.com/gin-gonic/gin"
)

// FetchDexPrices handles POST /api/v1/tools/fetch-dex-prices
func (h *APIHandler) FetchDexPrices(c *gin.Context) {
	var p tools.FetchPricesParams
	serve(h, c, &p, h.ops.FetchDexPrices)
}

// FetchCexPrices handles POST /api/v1/tools/fetch-cex-prices
func (h *APIHandler) FetchCexPrices(c *gin.Context) {
	var p tools.FetchPricesParams
	serve(h, c, &p, h.ops.FetchCexPrices)
}

// DetectArbitrage handles POST /api/v1/tools/detect-arbitrage
func (h *APIHandler) DetectArbitrage(c *gin.Context) {
	p := tools.NewDetectParams()
	serve(h, c, &p, h.ops.DetectArbitrage)
}

// ExecuteTrade handles POST /api/v1/tools/execute-trade
func (h *APIHandler) ExecuteTrade(c *gin.Context) {
	p := tools.NewExecuteTradeParams()
	serve(h, c, &p, h.ops.ExecuteTrade)
}

// MonitorMarket handles POST /api/v1/tools/monitor-market
func (h *APIHandler) MonitorMarket(c *gin.Context) {
	p := tools.NewMonitorParams()
	serve(h, c, &p, h.ops.MonitorMarket)
}

// BroadcastOpportunity handles POST /api/v1/tools/broadcast-opportunity
func (h *APIHandler) BroadcastOpportunity(c *gin.Context) {
	p := tools.NewBroadcastParams()
	serve(h, c, &p, h.ops.BroadcastOpportunity)
}

// TrackPortfolio handles POST /api/v1/tools/track-portfolio
func (h *APIHandler) TrackPortfolio(c *gin.Context) {
	p := tools.NewPortfolioParams()
	serve(h, c, &p, h.ops.TrackPortfolio)
}

// OpportunityHistory handles GET /api/v1/opportunities/history
func (h *APIHandler) OpportunityHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.ops.OpportunityHistory(c.Request.Context()))
}

// HealthCheck handles GET /health requests
func (h *APIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// serve decodes the body over the defaulted params and runs the operation.
// An empty body keeps every default.
func serve[P, R any](h *APIHandler, c *gin.Context, params *P, op func(context.Context, P) (R, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	if err := c.ShouldBindJSON(params); err != nil && !errors.Is(err, io.EOF) {
		h.handleError(c, err, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := op(ctx, *params)
	if err != nil {
		if errors.Is(err, tools.ErrInvalidParams) {
			h.handleValidationError(c, err)
			return
		}
		h.handleError(c, err, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleError logs the error and sends appropriate HTTP response
func (h *APIHandler) handleError(c *gin.Context, err error, statusCode int, userMessage string) {
	requestID := c.GetString(RequestIDContextKey)
	if requestID == "" {
		requestID = "unknown"
	}

	h.logger.Error("API error",
		slog.String("request_id", requestID),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
		slog.Int("status_code", statusCode),
	)

	c.JSON(statusCode, gin.H{
		"error":      userMessage,
		"request_id": requestID,
	})
}

// handleValidationError handles validation errors specifically
func (h *APIHandler) handleValidationError(c *gin.Context, err error) {
	h.handleError(c, err, http.StatusBadRequest, err.Error())
}
