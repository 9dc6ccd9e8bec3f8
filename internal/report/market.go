package report

import (
	"cmp"
	"context"
	"log/slog"
	"math"
	"slices"
	"time"

	"arbscout/internal/config"
	"arbscout/internal/model"
)

// NoneLabel marks an empty summary field.
const NoneLabel = "N/A"

// QuoteFetcher synthesizes quotes for a venue class.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, symbols, venues []string, class model.VenueClass) []model.PriceQuote
}

// MarketMonitor samples prices in a short bounded loop and summarizes them.
type MarketMonitor struct {
	logger  *slog.Logger
	fetcher QuoteFetcher
	cfg     config.MonitorConfig
}

// NewMarketMonitor creates a MarketMonitor.
func NewMarketMonitor(logger *slog.Logger, fetcher QuoteFetcher, cfg config.MonitorConfig) *MarketMonitor {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	if cfg.UpdateLimit <= 0 {
		cfg.UpdateLimit = 20
	}
	return &MarketMonitor{logger: logger, fetcher: fetcher, cfg: cfg}
}

// Monitor runs min(ceil(durationSeconds), MaxIterations) sampling rounds.
// On cancellation it returns the report built so far together with the context error.
func (m *MarketMonitor) Monitor(ctx context.Context, symbols []string, durationSeconds float64) (model.MarketReport, error) {
	iterations := m.cfg.MaxIterations
	if d := math.Ceil(durationSeconds); d < float64(iterations) {
		iterations = int(d)
	}
	delay := time.Duration(m.cfg.IterationDelayMS) * time.Millisecond

	var updates []model.PriceQuote
	var spreads []float64
	series := make(map[string][]float64)

	var err error
	for i := 0; i < iterations; i++ {
		round := m.fetcher.FetchQuotes(ctx, symbols, nil, model.VenueOnChain)
		round = append(round, m.fetcher.FetchQuotes(ctx, symbols, nil, model.VenueCentralized)...)
		updates = append(updates, round...)
		for _, q := range round {
			series[q.Symbol] = append(series[q.Symbol], q.Price)
		}
		spreads = append(spreads, roundSpreads(round)...)

		if i == iterations-1 || delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-time.After(delay):
		}
		if err != nil {
			break
		}
	}

	report := summarize(updates, spreads, series, m.cfg.UpdateLimit)
	m.logger.Info("Market monitor finished",
		"iterations", iterations,
		"pricesChecked", report.Summary.TotalPricesChecked,
		"mostActiveExchange", report.Summary.MostActiveExchange,
	)
	return report, err
}

// roundSpreads returns (max-min)/min*100 for every symbol seen in one round.
func roundSpreads(round []model.PriceQuote) []float64 {
	lo := make(map[string]float64)
	hi := make(map[string]float64)
	for _, q := range round {
		if v, ok := lo[q.Symbol]; !ok || q.Price < v {
			lo[q.Symbol] = q.Price
		}
		if v, ok := hi[q.Symbol]; !ok || q.Price > v {
			hi[q.Symbol] = q.Price
		}
	}
	out := make([]float64, 0, len(lo))
	for s, low := range lo {
		if low > 0 {
			out = append(out, (hi[s]-low)/low*100)
		}
	}
	return out
}

func summarize(updates []model.PriceQuote, spreads []float64, series map[string][]float64, limit int) model.MarketReport {
	volumes := make(map[string]float64)
	for _, q := range updates {
		volumes[q.Exchange] += q.Volume24h
	}

	trends := make(map[string]model.SymbolTrend, len(series))
	for symbol, prices := range series {
		trends[symbol] = AnalyzeTrend(prices)
	}

	avgSpread := 0.0
	if len(spreads) > 0 {
		var sum float64
		for _, s := range spreads {
			sum += s
		}
		avgSpread = model.RoundTo(sum/float64(len(spreads)), 2)
	}

	total := len(updates)
	if len(updates) > limit {
		updates = updates[:limit]
	}
	if updates == nil {
		updates = []model.PriceQuote{}
	}

	return model.MarketReport{
		Summary: model.MarketSummary{
			TotalPricesChecked: total,
			AverageSpread:      avgSpread,
			HighestVolatility:  argMax(trends, func(t model.SymbolTrend) float64 { return t.Volatility }),
			MostActiveExchange: argMax(volumes, func(v float64) float64 { return v }),
		},
		PriceUpdates:  updates,
		TrendAnalysis: trends,
	}
}

// AnalyzeTrend classifies a non-empty price series by its last vs first sample.
func AnalyzeTrend(prices []float64) model.SymbolTrend {
	if len(prices) == 0 {
		return model.SymbolTrend{Trend: model.TrendStable}
	}
	first, last := prices[0], prices[len(prices)-1]
	lo, hi, sum := prices[0], prices[0], 0.0
	for _, p := range prices {
		lo = min(lo, p)
		hi = max(hi, p)
		sum += p
	}

	trend := model.TrendStable
	switch {
	case last > first:
		trend = model.TrendUp
	case last < first:
		trend = model.TrendDown
	}
	return model.SymbolTrend{
		Trend:        trend,
		Volatility:   model.RoundTo(hi-lo, 2),
		AveragePrice: model.RoundTo(sum/float64(len(prices)), 2),
	}
}

// argMax returns the key with the largest score, breaking ties by key order.
func argMax[V any](m map[string]V, score func(V) float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return NoneLabel
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(score(m[b]), score(m[a])); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return keys[0]
}
