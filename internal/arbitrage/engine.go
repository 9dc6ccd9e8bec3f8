package arbitrage

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"arbscout/internal/cache"
	"arbscout/internal/config"
	"arbscout/internal/model"
)

// DetectOptions narrows a detection pass.
type DetectOptions struct {
	MinProfitPercent float64
	// Symbols restricts detection; empty means every cached symbol.
	Symbols     []string
	IncludeFees bool
}

// ArbitrageEngine scans the price cache for cross-venue spreads.
type ArbitrageEngine struct {
	logger  *slog.Logger
	prices  *cache.PriceCache
	history *History
	cfg     config.ArbitrageConfig
	now     func() time.Time
}

// NewArbitrageEngine creates a new instance of the ArbitrageEngine.
func NewArbitrageEngine(logger *slog.Logger, prices *cache.PriceCache, history *History, cfg config.ArbitrageConfig) *ArbitrageEngine {
	if history == nil {
		history = NewHistory(cfg.HistoryCapacity)
	}
	return &ArbitrageEngine{
		logger:  logger,
		prices:  prices,
		history: history,
		cfg:     cfg,
		now:     time.Now,
	}
}

// History returns the buffer every emitted opportunity is pushed into.
func (e *ArbitrageEngine) History() *History {
	return e.history
}

// Confidence buckets an opportunity by its net profit percentage alone.
// Liquidity is not considered.
func Confidence(profitPercent float64) model.Confidence {
	switch {
	case profitPercent > 2:
		return model.ConfidenceHigh
	case profitPercent > 1:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// Detect emits at most one opportunity per symbol, sorted by profit descending.
func (e *ArbitrageEngine) Detect(opts DetectOptions) []model.ArbitrageOpportunity {
	var wanted map[string]bool
	if len(opts.Symbols) > 0 {
		wanted = make(map[string]bool, len(opts.Symbols))
		for _, s := range opts.Symbols {
			wanted[model.NormalizeSymbol(s)] = true
		}
	}

	bySymbol := make(map[string][]model.PriceQuote)
	for q := range e.prices.All() {
		if wanted != nil && !wanted[q.Symbol] {
			continue
		}
		bySymbol[q.Symbol] = append(bySymbol[q.Symbol], q)
	}

	detectedAt := e.now()
	opportunities := make([]model.ArbitrageOpportunity, 0, len(bySymbol))
	for symbol, quotes := range bySymbol {
		opp, ok := e.evaluate(symbol, quotes, opts, detectedAt)
		if !ok {
			continue
		}
		opportunities = append(opportunities, opp)
	}

	slices.SortFunc(opportunities, func(a, b model.ArbitrageOpportunity) int {
		if c := cmp.Compare(b.ProfitPercent, a.ProfitPercent); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})

	for _, opp := range opportunities {
		e.history.Push(opp)
	}
	if len(opportunities) > 0 {
		e.logger.Info("Arbitrage opportunities detected",
			"count", len(opportunities),
			"topSymbol", opportunities[0].Symbol,
			"topProfitPercent", opportunities[0].ProfitPercent,
		)
	}
	return opportunities
}

func (e *ArbitrageEngine) evaluate(symbol string, quotes []model.PriceQuote, opts DetectOptions, detectedAt time.Time) (model.ArbitrageOpportunity, bool) {
	if len(quotes) < 2 {
		return model.ArbitrageOpportunity{}, false
	}

	slices.SortFunc(quotes, func(a, b model.PriceQuote) int {
		if c := cmp.Compare(a.Price, b.Price); c != 0 {
			return c
		}
		return cmp.Compare(a.Exchange, b.Exchange)
	})
	buy := quotes[0]
	sell := quotes[len(quotes)-1]

	grossPercent := (sell.Price - buy.Price) / buy.Price * 100
	fees := 0.0
	if opts.IncludeFees {
		fees = buy.Price * e.cfg.FeePercent / 100
	}
	// Threshold and tier use the reported two-decimal value.
	netPercent := model.RoundTo(grossPercent-fees/buy.Price*100, 2)
	if netPercent < opts.MinProfitPercent {
		return model.ArbitrageOpportunity{}, false
	}

	return model.ArbitrageOpportunity{
		Symbol:          symbol,
		BuyExchange:     buy.Exchange,
		SellExchange:    sell.Exchange,
		BuyPrice:        buy.Price,
		SellPrice:       sell.Price,
		ProfitPercent:   netPercent,
		EstimatedProfit: model.RoundUSD((sell.Price - buy.Price - fees) * e.cfg.EstimateQuantity),
		LiquidityProxy:  min(buy.Volume24h, sell.Volume24h),
		Confidence:      Confidence(netPercent),
		DetectedAt:      detectedAt,
		BuyVenueClass:   buy.VenueClass,
		SellVenueClass:  sell.VenueClass,
	}, true
}
