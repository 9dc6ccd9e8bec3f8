// Package tools exposes the core as independently invocable operations with
// typed, defaulted and validated parameters.
package tools

import (
	"context"
	"fmt"
	"log/slog"

	"arbscout/internal/arbitrage"
	"arbscout/internal/cache"
	"arbscout/internal/config"
	"arbscout/internal/database"
	"arbscout/internal/exchange"
	"arbscout/internal/model"
	"arbscout/internal/random"
	"arbscout/internal/report"
)

// Operation identifiers.
const (
	OpFetchDexPrices       = "fetch-dex-prices"
	OpFetchCexPrices       = "fetch-cex-prices"
	OpDetectArbitrage      = "detect-arbitrage"
	OpExecuteTrade         = "execute-trade"
	OpMonitorMarket        = "monitor-market"
	OpBroadcastOpportunity = "broadcast-opportunity"
	OpTrackPortfolio       = "track-portfolio"
)

// DetectResult is the output of detectArbitrage.
type DetectResult struct {
	Opportunities      []model.ArbitrageOpportunity `json:"opportunities"`
	TotalOpportunities int                          `json:"totalOpportunities"`
	TopOpportunity     *model.ArbitrageOpportunity  `json:"topOpportunity"`
}

// Toolkit owns one isolated set of core state: a price cache, an opportunity
// history and the trade ledger the host records fills into.
type Toolkit struct {
	logger      *slog.Logger
	source      *exchange.PriceSource
	engine      *arbitrage.ArbitrageEngine
	simulator   *arbitrage.Simulator
	monitor     *report.MarketMonitor
	broadcaster *report.Broadcaster
	portfolio   *report.PortfolioTracker
	ledger      database.Repository
}

// Options overrides collaborators, mainly for tests.
type Options struct {
	Lookup exchange.PriceLookup
	Random random.Source
}

// New wires a Toolkit from cfg. A nil opts.Lookup uses the configured provider.
func New(logger *slog.Logger, cfg config.Config, ledger database.Repository, opts Options) (*Toolkit, error) {
	lookup := opts.Lookup
	if lookup == nil {
		var err error
		lookup, err = exchange.NewLookup(logger, cfg.PriceSource)
		if err != nil {
			return nil, fmt.Errorf("create price lookup: %w", err)
		}
	}
	if ledger == nil {
		ledger = database.NewMemoryRepository()
	}
	rnd := opts.Random
	if rnd == nil {
		rnd = random.Default()
	}

	prices := cache.NewPriceCache()
	venues := exchange.NewVenues(cfg.PriceSource.DexVenues, cfg.PriceSource.CexVenues)
	source := exchange.NewPriceSource(logger, exchange.NewResolver(logger, lookup), venues, prices, rnd)

	return &Toolkit{
		logger:      logger,
		source:      source,
		engine:      arbitrage.NewArbitrageEngine(logger, prices, arbitrage.NewHistory(cfg.Arbitrage.HistoryCapacity), cfg.Arbitrage),
		simulator:   arbitrage.NewSimulator(logger, venues, cfg.Trade, rnd),
		monitor:     report.NewMarketMonitor(logger, source, cfg.Monitor),
		broadcaster: report.NewBroadcaster(logger, rnd),
		portfolio:   report.NewPortfolioTracker(logger, ledger, cfg.Portfolio.DemoMode, rnd),
		ledger:      ledger,
	}, nil
}

// FetchDexPrices quotes tokens on on-chain venues.
func (t *Toolkit) FetchDexPrices(ctx context.Context, p FetchPricesParams) ([]model.PriceQuote, error) {
	return t.fetch(ctx, p, model.VenueOnChain)
}

// FetchCexPrices quotes tokens on centralized venues.
func (t *Toolkit) FetchCexPrices(ctx context.Context, p FetchPricesParams) ([]model.PriceQuote, error) {
	return t.fetch(ctx, p, model.VenueCentralized)
}

func (t *Toolkit) fetch(ctx context.Context, p FetchPricesParams, class model.VenueClass) ([]model.PriceQuote, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return t.source.FetchQuotes(ctx, p.Tokens, p.Venues, class), nil
}

// DetectArbitrage scans cached quotes.
func (t *Toolkit) DetectArbitrage(ctx context.Context, p DetectParams) (DetectResult, error) {
	if err := p.Validate(); err != nil {
		return DetectResult{}, err
	}
	opps := t.engine.Detect(arbitrage.DetectOptions{
		MinProfitPercent: p.MinProfitPercent,
		Symbols:          p.Tokens,
		IncludeFees:      p.IncludeFees,
	})
	res := DetectResult{Opportunities: opps, TotalOpportunities: len(opps)}
	if len(opps) > 0 {
		top := opps[0]
		res.TopOpportunity = &top
	}
	return res, nil
}

// ExecuteTrade simulates a trade and records the fill in the ledger.
// A ledger failure is logged and does not fail the trade.
func (t *Toolkit) ExecuteTrade(ctx context.Context, p ExecuteTradeParams) (model.TradeFill, error) {
	if err := p.Validate(); err != nil {
		return model.TradeFill{}, err
	}
	fill, err := t.simulator.Execute(p.Opportunity, p.Amount, p.MaxSlippage, p.DryRun)
	if err != nil {
		return model.TradeFill{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if err := t.ledger.LogTrade(ctx, fill); err != nil {
		t.logger.Error("Failed to log trade", "tradeId", fill.TradeID, "error", err)
	}
	return fill, nil
}

// MonitorMarket samples the market for a bounded number of rounds.
func (t *Toolkit) MonitorMarket(ctx context.Context, p MonitorParams) (model.MarketReport, error) {
	if err := p.Validate(); err != nil {
		return model.MarketReport{}, err
	}
	return t.monitor.Monitor(ctx, p.Tokens, p.Duration)
}

// BroadcastOpportunity announces an opportunity (simulated).
func (t *Toolkit) BroadcastOpportunity(ctx context.Context, p BroadcastParams) (model.BroadcastReceipt, error) {
	if err := p.Validate(); err != nil {
		return model.BroadcastReceipt{}, err
	}
	return t.broadcaster.Broadcast(p.Opportunity, p.Priority)
}

// TrackPortfolio summarizes recorded trades for a period.
func (t *Toolkit) TrackPortfolio(ctx context.Context, p PortfolioParams) (model.PortfolioStats, error) {
	if err := p.Validate(); err != nil {
		return model.PortfolioStats{}, err
	}
	return t.portfolio.Track(ctx, p.Period)
}

// OpportunityHistory returns recently detected opportunities, newest first.
func (t *Toolkit) OpportunityHistory(ctx context.Context) []model.ArbitrageOpportunity {
	return t.engine.History().Snapshot()
}
