package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"arbscout/internal/model"
	"arbscout/internal/tools"

	"github.com/gin-gonic/gin"
)

// Constants
const (
	DefaultTimeout      = 30 * time.Second
	ServiceVersion      = "1.0.0"
	ServiceName         = "arbscout"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// Operations is the core surface served over HTTP.
type Operations interface {
	FetchDexPrices(ctx context.Context, p tools.FetchPricesParams) ([]model.PriceQuote, error)
	FetchCexPrices(ctx context.Context, p tools.FetchPricesParams) ([]model.PriceQuote, error)
	DetectArbitrage(ctx context.Context, p tools.DetectParams) (tools.DetectResult, error)
	ExecuteTrade(ctx context.Context, p tools.ExecuteTradeParams) (model.TradeFill, error)
	MonitorMarket(ctx context.Context, p tools.MonitorParams) (model.MarketReport, error)
	BroadcastOpportunity(ctx context.Context, p tools.BroadcastParams) (model.BroadcastReceipt, error)
	TrackPortfolio(ctx context.Context, p tools.PortfolioParams) (model.PortfolioStats, error)
	OpportunityHistory(ctx context.Context) []model.ArbitrageOpportunity
}

// APIHandler handles HTTP requests using Gin framework
type APIHandler struct {
	ops    Operations
	logger *slog.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(ops Operations, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{ops: ops, logger: logger}
}

// NewServer builds the HTTP server for the API on port.
func (h *APIHandler) NewServer(port int) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           h.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(requestLoggerMiddleware(h.logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", h.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.POST("/tools/"+tools.OpFetchDexPrices, h.FetchDexPrices)
	v1.POST("/tools/"+tools.OpFetchCexPrices, h.FetchCexPrices)
	v1.POST("/tools/"+tools.OpDetectArbitrage, h.DetectArbitrage)
	v1.POST("/tools/"+tools.OpExecuteTrade, h.ExecuteTrade)
	v1.POST("/tools/"+tools.OpMonitorMarket, h.MonitorMarket)
	v1.POST("/tools/"+tools.OpBroadcastOpportunity, h.BroadcastOpportunity)
	v1.POST("/tools/"+tools.OpTrackPortfolio, h.TrackPortfolio)
	v1.GET("/opportunities/history", h.OpportunityHistory)

	return router
}
