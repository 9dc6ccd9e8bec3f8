// Package report holds the aggregators that summarize trades and market activity.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"arbscout/internal/database"
	"arbscout/internal/model"
	"arbscout/internal/random"
)

// ErrUnknownPeriod is returned for a period outside 1h, 24h, 7d and 30d.
var ErrUnknownPeriod = errors.New("unknown period")

// Portfolio data sources.
const (
	SourceLedger = "ledger"
	SourceDemo   = "demo"
)

var periods = map[string]time.Duration{
	"1h":  time.Hour,
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// ParsePeriod converts a portfolio period into a duration.
func ParsePeriod(period string) (time.Duration, error) {
	d, ok := periods[period]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
	}
	return d, nil
}

// PortfolioTracker aggregates ledger fills, or synthesizes statistics in demo mode.
type PortfolioTracker struct {
	logger *slog.Logger
	repo   database.Repository
	demo   bool
	rnd    random.Source
	now    func() time.Time
}

// NewPortfolioTracker creates a tracker over repo.
func NewPortfolioTracker(logger *slog.Logger, repo database.Repository, demo bool, rnd random.Source) *PortfolioTracker {
	if rnd == nil {
		rnd = random.Default()
	}
	return &PortfolioTracker{logger: logger, repo: repo, demo: demo, rnd: rnd, now: time.Now}
}

// Track summarizes the given period.
func (p *PortfolioTracker) Track(ctx context.Context, period string) (model.PortfolioStats, error) {
	window, err := ParsePeriod(period)
	if err != nil {
		return model.PortfolioStats{}, err
	}
	if p.demo {
		stats := p.demoStats()
		stats.Period = period
		return stats, nil
	}

	trades, err := p.repo.ListTrades(ctx, p.now().Add(-window))
	if err != nil {
		return model.PortfolioStats{}, fmt.Errorf("list trades: %w", err)
	}
	stats := Aggregate(trades)
	stats.Period = period
	p.logger.Debug("PortfolioTracker: stats aggregated", "period", period, "trades", stats.TotalTrades)
	return stats, nil
}

// Aggregate summarizes fills. With no fills every rate and average is 0.
func Aggregate(trades []model.TradeFill) model.PortfolioStats {
	stats := model.PortfolioStats{Source: SourceLedger, TotalTrades: len(trades)}
	var total float64
	for i := range trades {
		t := trades[i]
		if t.Success {
			stats.SuccessfulTrades++
		}
		total += t.ActualProfit
		if stats.BestTrade == nil || t.ActualProfit > stats.BestTrade.Profit {
			stats.BestTrade = &model.BestTrade{Symbol: t.Symbol, Profit: t.ActualProfit, Timestamp: t.ExecutedAt}
		}
	}
	stats.TotalProfit = model.RoundUSD(total)
	stats.SuccessRate, stats.AverageProfit = rates(stats.SuccessfulTrades, stats.TotalTrades, total)
	return stats
}

func rates(successful, total int, profit float64) (successRate, average float64) {
	if total == 0 {
		return 0, 0
	}
	return model.RoundTo(float64(successful)/float64(total)*100, 2), model.RoundUSD(profit / float64(total))
}

func (p *PortfolioTracker) demoStats() model.PortfolioStats {
	trades := random.IntRange(p.rnd, 10, 50)
	successful := trades * 7 / 10
	total := float64(successful) * random.Uniform(p.rnd, 50, 250)

	best := 0.0
	for i := 0; i < 10; i++ {
		best = max(best, random.Uniform(p.rnd, 100, 600))
	}
	ago := time.Duration(p.rnd.Float64() * float64(24*time.Hour))

	stats := model.PortfolioStats{
		Source:           SourceDemo,
		TotalTrades:      trades,
		SuccessfulTrades: successful,
		TotalProfit:      model.RoundUSD(total),
		BestTrade:        &model.BestTrade{Symbol: "ETH", Profit: model.RoundUSD(best), Timestamp: p.now().Add(-ago)},
	}
	stats.SuccessRate, stats.AverageProfit = rates(successful, trades, total)
	return stats
}
