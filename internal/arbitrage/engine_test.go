package arbitrage

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"arbscout/internal/cache"
	"arbscout/internal/config"
	"arbscout/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testArbitrageConfig() config.ArbitrageConfig {
	return config.ArbitrageConfig{
		FeePercent:       0.3,
		EstimateQuantity: 1000,
		HistoryCapacity:  100,
	}
}

func newTestEngine(quotes ...model.PriceQuote) *ArbitrageEngine {
	c := cache.NewPriceCache()
	for _, q := range quotes {
		c.Put(q)
	}
	engine := NewArbitrageEngine(testLogger(), c, nil, testArbitrageConfig())
	engine.now = func() time.Time { return time.Unix(1700000000, 0) }
	return engine
}

func quote(exchange, symbol string, price, volume float64) model.PriceQuote {
	return model.PriceQuote{Exchange: exchange, Symbol: symbol, Price: price, Volume24h: volume, VenueClass: model.VenueCentralized}
}

func TestArbitrageEngine_Detect(t *testing.T) {
	t.Run("golden values with fees", func(t *testing.T) {
		engine := newTestEngine(
			quote("Kraken", "ETH", 100, 5_000_000),
			quote("Binance", "ETH", 101, 9_000_000),
			quote("Coinbase", "ETH", 102, 7_000_000),
		)

		opps := engine.Detect(DetectOptions{MinProfitPercent: 0.5, IncludeFees: true})
		require.Len(t, opps, 1)

		opp := opps[0]
		assert.Equal(t, "ETH", opp.Symbol)
		assert.Equal(t, "Kraken", opp.BuyExchange)
		assert.Equal(t, "Coinbase", opp.SellExchange)
		assert.Equal(t, 100.0, opp.BuyPrice)
		assert.Equal(t, 102.0, opp.SellPrice)
		assert.Equal(t, 1.7, opp.ProfitPercent)
		assert.Equal(t, 1700.0, opp.EstimatedProfit)
		assert.Equal(t, 5_000_000.0, opp.LiquidityProxy)
		assert.Equal(t, model.ConfidenceMedium, opp.Confidence)
		assert.Equal(t, time.Unix(1700000000, 0), opp.DetectedAt)
		assert.GreaterOrEqual(t, opp.SellPrice, opp.BuyPrice)
	})

	t.Run("golden values without fees", func(t *testing.T) {
		engine := newTestEngine(quote("A", "BTC", 100, 1), quote("B", "BTC", 102, 2))

		opps := engine.Detect(DetectOptions{MinProfitPercent: 0.5, IncludeFees: false})
		require.Len(t, opps, 1)
		assert.Equal(t, 2.0, opps[0].ProfitPercent)
		assert.Equal(t, 2000.0, opps[0].EstimatedProfit)
		assert.Equal(t, 1.0, opps[0].LiquidityProxy)
	})

	t.Run("single quote symbol is skipped", func(t *testing.T) {
		engine := newTestEngine(
			quote("A", "SOL", 100, 1),
			quote("A", "ETH", 100, 1),
			quote("B", "ETH", 110, 1),
		)

		opps := engine.Detect(DetectOptions{IncludeFees: true})
		require.Len(t, opps, 1)
		assert.Equal(t, "ETH", opps[0].Symbol)
	})

	t.Run("symbol filter", func(t *testing.T) {
		engine := newTestEngine(
			quote("A", "ETH", 100, 1), quote("B", "ETH", 110, 1),
			quote("A", "BTC", 100, 1), quote("B", "BTC", 120, 1),
		)

		opps := engine.Detect(DetectOptions{Symbols: []string{"eth"}})
		require.Len(t, opps, 1)
		assert.Equal(t, "ETH", opps[0].Symbol)
	})

	t.Run("sorted by profit descending", func(t *testing.T) {
		engine := newTestEngine(
			quote("A", "ETH", 100, 1), quote("B", "ETH", 103, 1),
			quote("A", "BTC", 100, 1), quote("B", "BTC", 110, 1),
			quote("A", "SOL", 100, 1), quote("B", "SOL", 101, 1),
		)

		opps := engine.Detect(DetectOptions{MinProfitPercent: 0})
		require.Len(t, opps, 3)
		assert.Equal(t, []string{"BTC", "ETH", "SOL"}, []string{opps[0].Symbol, opps[1].Symbol, opps[2].Symbol})
	})

	t.Run("equal prices tie-break by exchange name", func(t *testing.T) {
		engine := newTestEngine(
			quote("Zeta", "ETH", 100, 1),
			quote("Alpha", "ETH", 100, 1),
			quote("Mid", "ETH", 100, 1),
		)

		opps := engine.Detect(DetectOptions{MinProfitPercent: 0})
		require.Len(t, opps, 1)
		assert.Equal(t, "Alpha", opps[0].BuyExchange)
		assert.Equal(t, "Zeta", opps[0].SellExchange)
		assert.Equal(t, 0.0, opps[0].ProfitPercent)
	})

	t.Run("venue classes carried", func(t *testing.T) {
		dex := model.PriceQuote{Exchange: "Curve", Symbol: "ETH", Price: 100, VenueClass: model.VenueOnChain}
		engine := newTestEngine(dex, quote("Binance", "ETH", 105, 1))

		opps := engine.Detect(DetectOptions{})
		require.Len(t, opps, 1)
		assert.Equal(t, model.VenueOnChain, opps[0].BuyVenueClass)
		assert.Equal(t, model.VenueCentralized, opps[0].SellVenueClass)
	})

	t.Run("empty cache", func(t *testing.T) {
		assert.Empty(t, newTestEngine().Detect(DetectOptions{}))
	})
}

func TestArbitrageEngine_ThresholdMonotonic(t *testing.T) {
	engine := newTestEngine(
		quote("A", "ETH", 100, 1), quote("B", "ETH", 100.7, 1),
		quote("A", "BTC", 100, 1), quote("B", "BTC", 101.5, 1),
		quote("A", "SOL", 100, 1), quote("B", "SOL", 102.5, 1),
		quote("A", "DOT", 100, 1), quote("B", "DOT", 104, 1),
	)

	prev := -1
	for _, threshold := range []float64{4, 3, 2, 1.5, 1, 0.5, 0} {
		opps := engine.Detect(DetectOptions{MinProfitPercent: threshold})
		for _, opp := range opps {
			assert.GreaterOrEqual(t, opp.ProfitPercent, threshold)
		}
		if prev >= 0 {
			assert.GreaterOrEqual(t, len(opps), prev, "lowering threshold %v must not shrink the set", threshold)
		}
		prev = len(opps)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		profit float64
		want   model.Confidence
	}{
		{2.5, model.ConfidenceHigh},
		{2.0, model.ConfidenceMedium},
		{1.5, model.ConfidenceMedium},
		{1.0, model.ConfidenceLow},
		{0.7, model.ConfidenceLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Confidence(tt.profit), "profit %v", tt.profit)
	}
}

func TestArbitrageEngine_ConfidenceTiers(t *testing.T) {
	tests := []struct {
		sell    float64
		want    model.Confidence
		emitted bool
	}{
		{102.5, model.ConfidenceHigh, true},
		{101.5, model.ConfidenceMedium, true},
		{100.7, model.ConfidenceLow, true},
		{100.3, "", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("sell %v", tt.sell), func(t *testing.T) {
			engine := newTestEngine(quote("A", "ETH", 100, 1), quote("B", "ETH", tt.sell, 1))

			opps := engine.Detect(DetectOptions{MinProfitPercent: 0.5, IncludeFees: false})
			if !tt.emitted {
				assert.Empty(t, opps)
				return
			}
			require.Len(t, opps, 1)
			assert.Equal(t, tt.want, opps[0].Confidence)
		})
	}
}

// Threshold and tier read the reported 2dp profit.
func TestArbitrageEngine_RoundedProfitBoundaries(t *testing.T) {
	engine := newTestEngine(quote("A", "ETH", 100, 1), quote("B", "ETH", 100.496, 1))
	opps := engine.Detect(DetectOptions{MinProfitPercent: 0.5})
	require.Len(t, opps, 1, "0.496 reports as 0.50 and meets 0.5")
	assert.Equal(t, 0.5, opps[0].ProfitPercent)
	assert.Equal(t, model.ConfidenceLow, opps[0].Confidence)

	engine = newTestEngine(quote("A", "BTC", 100, 1), quote("B", "BTC", 102.004, 1))
	opps = engine.Detect(DetectOptions{MinProfitPercent: 0.5})
	require.Len(t, opps, 1)
	assert.Equal(t, 2.0, opps[0].ProfitPercent)
	assert.Equal(t, model.ConfidenceMedium, opps[0].Confidence, "2.004 reports as 2.00, not above 2")
}

// Deep liquidity does not raise the tier: confidence only reads profit.
func TestArbitrageEngine_ConfidenceIgnoresLiquidity(t *testing.T) {
	thin := newTestEngine(quote("A", "ETH", 100, 1), quote("B", "ETH", 100.7, 1))
	deep := newTestEngine(quote("A", "ETH", 100, 1e12), quote("B", "ETH", 100.7, 1e12))

	a := thin.Detect(DetectOptions{MinProfitPercent: 0.5})
	b := deep.Detect(DetectOptions{MinProfitPercent: 0.5})
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].Confidence, b[0].Confidence)
}

func TestArbitrageEngine_HistoryRecordsEmitted(t *testing.T) {
	engine := newTestEngine(quote("A", "ETH", 100, 1), quote("B", "ETH", 110, 1))

	for i := 0; i < 3; i++ {
		engine.Detect(DetectOptions{})
	}
	assert.Equal(t, 3, engine.History().Len())

	engine.Detect(DetectOptions{MinProfitPercent: 50})
	assert.Equal(t, 3, engine.History().Len())
}
