package model

import "time"

// Trend is the direction of a sampled price series.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Priority of a broadcast opportunity.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// BestTrade is the most profitable fill inside a portfolio window.
type BestTrade struct {
	Symbol    string    `json:"symbol"`
	Profit    float64   `json:"profit"`
	Timestamp time.Time `json:"timestamp"`
}

// PortfolioStats summarizes executed trades for a period.
type PortfolioStats struct {
	Period           string     `json:"period"`
	Source           string     `json:"source"`
	TotalTrades      int        `json:"totalTrades"`
	SuccessfulTrades int        `json:"successfulTrades"`
	SuccessRate      float64    `json:"successRate"`
	TotalProfit      float64    `json:"totalProfit"`
	AverageProfit    float64    `json:"averageProfit"`
	BestTrade        *BestTrade `json:"bestTrade"`
}

// MarketSummary is the headline of a monitoring run.
type MarketSummary struct {
	TotalPricesChecked int     `json:"totalPricesChecked"`
	AverageSpread      float64 `json:"averageSpread"`
	HighestVolatility  string  `json:"highestVolatility"`
	MostActiveExchange string  `json:"mostActiveExchange"`
}

// SymbolTrend is the per-symbol analysis of a monitoring run.
type SymbolTrend struct {
	Trend        Trend   `json:"trend"`
	Volatility   float64 `json:"volatility"`
	AveragePrice float64 `json:"averagePrice"`
}

// MarketReport is the result of a monitoring run.
type MarketReport struct {
	Summary       MarketSummary          `json:"summary"`
	PriceUpdates  []PriceQuote           `json:"priceUpdates"`
	TrendAnalysis map[string]SymbolTrend `json:"trendAnalysis"`
}

// BroadcastReceipt acknowledges a simulated broadcast.
type BroadcastReceipt struct {
	Broadcasted    bool      `json:"broadcasted"`
	Priority       Priority  `json:"priority"`
	RecipientCount int       `json:"recipientCount"`
	Timestamp      time.Time `json:"timestamp"`
}
