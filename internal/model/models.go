package model

import (
	"strings"
	"time"
)

// VenueClass tells on-chain venues apart from centralized ones.
type VenueClass string

const (
	VenueOnChain     VenueClass = "DEX"
	VenueCentralized VenueClass = "CEX"
)

// Valid reports whether c is a known venue class.
func (c VenueClass) Valid() bool {
	return c == VenueOnChain || c == VenueCentralized
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// PriceQuote is the most recent observed price of a symbol on one venue.
type PriceQuote struct {
	Exchange   string     `json:"exchange"`
	Symbol     string     `json:"symbol"`
	Price      float64    `json:"price"`
	Volume24h  float64    `json:"volume24h"`
	ObservedAt time.Time  `json:"observedAt"`
	VenueClass VenueClass `json:"type"`
}

// Confidence is the coarse quality bucket of an opportunity.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ArbitrageOpportunity is a buy-low/sell-high pair found for one symbol.
type ArbitrageOpportunity struct {
	Symbol          string     `json:"symbol"`
	BuyExchange     string     `json:"buyExchange"`
	SellExchange    string     `json:"sellExchange"`
	BuyPrice        float64    `json:"buyPrice"`
	SellPrice       float64    `json:"sellPrice"`
	ProfitPercent   float64    `json:"profitPercent"`
	EstimatedProfit float64    `json:"estimatedProfit"`
	LiquidityProxy  float64    `json:"volume24h"`
	Confidence      Confidence `json:"confidence"`
	DetectedAt      time.Time  `json:"timestamp"`
	BuyVenueClass   VenueClass `json:"buyVenueClass,omitempty"`
	SellVenueClass  VenueClass `json:"sellVenueClass,omitempty"`
}

// TradeLeg is one side of a simulated trade.
// For the buy leg Amount is the USD notional; for the sell leg it is the token quantity.
type TradeLeg struct {
	Exchange string  `json:"exchange"`
	Amount   float64 `json:"amount"`
	Price    float64 `json:"price"`
	Fee      float64 `json:"fee"`
}

// TradeFill is the outcome of one simulated execution.
type TradeFill struct {
	TradeID         string    `json:"tradeId"`
	Symbol          string    `json:"symbol"`
	Success         bool      `json:"success"`
	ActualProfit    float64   `json:"actualProfit"`
	SlippagePercent float64   `json:"slippagePercent"`
	BuyLeg          TradeLeg  `json:"buyTransaction"`
	SellLeg         TradeLeg  `json:"sellTransaction"`
	DryRun          bool      `json:"dryRun"`
	Message         string    `json:"message"`
	ExecutedAt      time.Time `json:"executedAt"`
}
