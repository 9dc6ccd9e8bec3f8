package tools

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"arbscout/internal/model"
	"arbscout/internal/report"
)

// ErrInvalidParams wraps every boundary validation failure.
var ErrInvalidParams = errors.New("invalid params")

// Operation defaults.
const (
	DefaultMinProfitPercent   = 0.5
	DefaultIncludeFees        = true
	DefaultMaxSlippagePercent = 0.5
	DefaultDryRun             = true
	DefaultMonitorDuration    = 60.0
	DefaultPriority           = model.PriorityMedium
	DefaultPeriod             = "24h"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, fmt.Sprintf(format, args...))
}

// FetchPricesParams are the inputs of fetchDexPrices and fetchCexPrices.
type FetchPricesParams struct {
	Tokens []string `json:"tokens"`
	Venues []string `json:"venues,omitempty"`
}

// Validate upper-cases tokens and rejects empty or blank entries.
func (p *FetchPricesParams) Validate() error {
	tokens, err := normalizeTokens(p.Tokens, true)
	if err != nil {
		return err
	}
	p.Tokens = tokens
	for _, v := range p.Venues {
		if strings.TrimSpace(v) == "" {
			return invalid("venue names must not be blank")
		}
	}
	return nil
}

// DetectParams are the inputs of detectArbitrage.
type DetectParams struct {
	MinProfitPercent float64  `json:"minProfitPercent"`
	Tokens           []string `json:"tokens,omitempty"`
	IncludeFees      bool     `json:"includeFees"`
}

// NewDetectParams returns the defaults.
func NewDetectParams() DetectParams {
	return DetectParams{MinProfitPercent: DefaultMinProfitPercent, IncludeFees: DefaultIncludeFees}
}

func (p *DetectParams) Validate() error {
	if math.IsNaN(p.MinProfitPercent) || p.MinProfitPercent < 0 {
		return invalid("minProfitPercent must be >= 0")
	}
	tokens, err := normalizeTokens(p.Tokens, false)
	if err != nil {
		return err
	}
	p.Tokens = tokens
	return nil
}

// ExecuteTradeParams are the inputs of executeTrade.
type ExecuteTradeParams struct {
	Opportunity model.ArbitrageOpportunity `json:"opportunity"`
	Amount      float64                    `json:"amount"`
	MaxSlippage float64                    `json:"maxSlippage"`
	DryRun      bool                       `json:"dryRun"`
}

// NewExecuteTradeParams returns the defaults.
func NewExecuteTradeParams() ExecuteTradeParams {
	return ExecuteTradeParams{MaxSlippage: DefaultMaxSlippagePercent, DryRun: DefaultDryRun}
}

func (p *ExecuteTradeParams) Validate() error {
	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) || p.Amount <= 0 {
		return invalid("amount must be positive")
	}
	if math.IsNaN(p.MaxSlippage) || p.MaxSlippage < 0 {
		return invalid("maxSlippage must be >= 0")
	}
	return validateOpportunity(&p.Opportunity)
}

// MonitorParams are the inputs of monitorMarket.
type MonitorParams struct {
	Tokens   []string `json:"tokens"`
	Duration float64  `json:"duration"`
}

// NewMonitorParams returns the defaults.
func NewMonitorParams() MonitorParams {
	return MonitorParams{Duration: DefaultMonitorDuration}
}

func (p *MonitorParams) Validate() error {
	tokens, err := normalizeTokens(p.Tokens, true)
	if err != nil {
		return err
	}
	p.Tokens = tokens
	if math.IsNaN(p.Duration) || p.Duration <= 0 {
		return invalid("duration must be positive")
	}
	return nil
}

// BroadcastParams are the inputs of broadcastOpportunity.
type BroadcastParams struct {
	Opportunity model.ArbitrageOpportunity `json:"opportunity"`
	Priority    model.Priority             `json:"priority"`
}

// NewBroadcastParams returns the defaults.
func NewBroadcastParams() BroadcastParams {
	return BroadcastParams{Priority: DefaultPriority}
}

func (p *BroadcastParams) Validate() error {
	if !p.Priority.Valid() {
		return invalid("priority must be one of high, medium, low")
	}
	return validateOpportunity(&p.Opportunity)
}

// PortfolioParams are the inputs of trackPortfolio.
type PortfolioParams struct {
	Period string `json:"period"`
}

// NewPortfolioParams returns the defaults.
func NewPortfolioParams() PortfolioParams {
	return PortfolioParams{Period: DefaultPeriod}
}

func (p *PortfolioParams) Validate() error {
	if _, err := report.ParsePeriod(p.Period); err != nil {
		return invalid("period must be one of 1h, 24h, 7d, 30d")
	}
	return nil
}

func normalizeTokens(tokens []string, required bool) ([]string, error) {
	if required && len(tokens) == 0 {
		return nil, invalid("tokens must not be empty")
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		s := model.NormalizeSymbol(t)
		if s == "" {
			return nil, invalid("tokens must not contain blank symbols")
		}
		out = append(out, s)
	}
	return out, nil
}

func validateOpportunity(opp *model.ArbitrageOpportunity) error {
	opp.Symbol = model.NormalizeSymbol(opp.Symbol)
	switch {
	case opp.Symbol == "":
		return invalid("opportunity.symbol is required")
	case strings.TrimSpace(opp.BuyExchange) == "" || strings.TrimSpace(opp.SellExchange) == "":
		return invalid("opportunity exchanges are required")
	case opp.BuyPrice <= 0 || opp.SellPrice <= 0:
		return invalid("opportunity prices must be positive")
	case opp.BuyVenueClass != "" && !opp.BuyVenueClass.Valid():
		return invalid("opportunity.buyVenueClass must be DEX or CEX")
	case opp.SellVenueClass != "" && !opp.SellVenueClass.Valid():
		return invalid("opportunity.sellVenueClass must be DEX or CEX")
	}
	return nil
}
