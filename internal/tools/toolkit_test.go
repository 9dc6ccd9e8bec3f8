package tools

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"arbscout/internal/config"
	"arbscout/internal/database"
	"arbscout/internal/model"
	"arbscout/internal/random"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.PriceSource.Provider = "static"
	cfg.Monitor.IterationDelayMS = 0
	return cfg
}

func newTestToolkit(t *testing.T, ledger database.Repository) *Toolkit {
	t.Helper()
	tk, err := New(testLogger(), testConfig(t), ledger, Options{})
	require.NoError(t, err)
	return tk
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LogTrade(ctx context.Context, fill model.TradeFill) error {
	args := m.Called(ctx, fill)
	return args.Error(0)
}

func (m *MockRepository) ListTrades(ctx context.Context, since time.Time) ([]model.TradeFill, error) {
	args := m.Called(ctx, since)
	trades, _ := args.Get(0).([]model.TradeFill)
	return trades, args.Error(1)
}

func validOpportunity() model.ArbitrageOpportunity {
	return model.ArbitrageOpportunity{Symbol: "eth", BuyExchange: "Kraken", SellExchange: "Binance", BuyPrice: 100, SellPrice: 102}
}

func TestToolkit_FetchCounts(t *testing.T) {
	tk := newTestToolkit(t, nil)
	ctx := context.Background()

	dex, err := tk.FetchDexPrices(ctx, FetchPricesParams{Tokens: []string{"eth", "BTC"}})
	require.NoError(t, err)
	assert.Len(t, dex, 8)

	cex, err := tk.FetchCexPrices(ctx, FetchPricesParams{Tokens: []string{"ETH"}, Venues: []string{"Binance", "Kraken"}})
	require.NoError(t, err)
	assert.Len(t, cex, 2)
	for _, q := range append(dex, cex...) {
		assert.Greater(t, q.Price, 0.0)
	}
	assert.Equal(t, model.VenueOnChain, dex[0].VenueClass)
	assert.Equal(t, model.VenueCentralized, cex[0].VenueClass)
}

func TestToolkit_DetectAfterFetch(t *testing.T) {
	tk := newTestToolkit(t, nil)
	ctx := context.Background()

	_, err := tk.FetchDexPrices(ctx, FetchPricesParams{Tokens: []string{"ETH", "BTC"}})
	require.NoError(t, err)
	_, err = tk.FetchCexPrices(ctx, FetchPricesParams{Tokens: []string{"ETH", "BTC"}})
	require.NoError(t, err)

	res, err := tk.DetectArbitrage(ctx, DetectParams{MinProfitPercent: 0, IncludeFees: false})
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalOpportunities)
	require.NotNil(t, res.TopOpportunity)
	assert.Equal(t, res.Opportunities[0], *res.TopOpportunity)
	assert.GreaterOrEqual(t, res.Opportunities[0].ProfitPercent, res.Opportunities[1].ProfitPercent)
	assert.Len(t, tk.OpportunityHistory(ctx), 2)

	res, err = tk.DetectArbitrage(ctx, DetectParams{MinProfitPercent: 1000})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalOpportunities)
	assert.Nil(t, res.TopOpportunity)
}

func TestToolkit_ExecuteTradeRecordsFill(t *testing.T) {
	ledger := new(MockRepository)
	ledger.On("LogTrade", mock.Anything, mock.MatchedBy(func(f model.TradeFill) bool {
		return f.Symbol == "ETH" && f.DryRun
	})).Return(nil).Once()
	tk := newTestToolkit(t, ledger)

	p := NewExecuteTradeParams()
	p.Opportunity = validOpportunity()
	p.Amount = 1000
	p.MaxSlippage = 0

	fill, err := tk.ExecuteTrade(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 18.0, fill.ActualProfit)
	assert.True(t, fill.Success)
	ledger.AssertExpectations(t)
}

func TestToolkit_ExecuteTradeLedgerFailureIsNotFatal(t *testing.T) {
	ledger := new(MockRepository)
	ledger.On("LogTrade", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	tk := newTestToolkit(t, ledger)

	p := NewExecuteTradeParams()
	p.Opportunity = validOpportunity()
	p.Amount = 500

	_, err := tk.ExecuteTrade(context.Background(), p)
	assert.NoError(t, err)
}

func TestToolkit_PortfolioReflectsExecutedTrades(t *testing.T) {
	tk := newTestToolkit(t, database.NewMemoryRepository())
	ctx := context.Background()

	stats, err := tk.TrackPortfolio(ctx, NewPortfolioParams())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalTrades)
	assert.Equal(t, 0.0, stats.SuccessRate)

	p := NewExecuteTradeParams()
	p.Opportunity = validOpportunity()
	p.Amount = 1000
	p.MaxSlippage = 0
	for i := 0; i < 2; i++ {
		_, err := tk.ExecuteTrade(ctx, p)
		require.NoError(t, err)
	}

	stats, err = tk.TrackPortfolio(ctx, PortfolioParams{Period: "1h"})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTrades)
	assert.Equal(t, 100.0, stats.SuccessRate)
	assert.Equal(t, 36.0, stats.TotalProfit)
	assert.Equal(t, 18.0, stats.AverageProfit)
}

func TestToolkit_MonitorAndBroadcast(t *testing.T) {
	tk, err := New(testLogger(), testConfig(t), nil, Options{Random: random.NewSequence(0.25, 0.75)})
	require.NoError(t, err)
	ctx := context.Background()

	rep, err := tk.MonitorMarket(ctx, MonitorParams{Tokens: []string{"eth"}, Duration: 3})
	require.NoError(t, err)
	assert.Equal(t, 3*8, rep.Summary.TotalPricesChecked)
	assert.Contains(t, rep.TrendAnalysis, "ETH")

	b := NewBroadcastParams()
	b.Opportunity = validOpportunity()
	receipt, err := tk.BroadcastOpportunity(ctx, b)
	require.NoError(t, err)
	assert.True(t, receipt.Broadcasted)
	assert.Equal(t, model.PriorityMedium, receipt.Priority)
	assert.GreaterOrEqual(t, receipt.RecipientCount, 10)
}

func TestToolkit_DemoPortfolio(t *testing.T) {
	cfg := testConfig(t)
	cfg.Portfolio.DemoMode = true
	tk, err := New(testLogger(), cfg, nil, Options{})
	require.NoError(t, err)

	stats, err := tk.TrackPortfolio(context.Background(), NewPortfolioParams())
	require.NoError(t, err)
	assert.Equal(t, "demo", stats.Source)
	assert.GreaterOrEqual(t, stats.TotalTrades, 10)
}

func TestToolkit_ValidationErrors(t *testing.T) {
	tk := newTestToolkit(t, nil)
	ctx := context.Background()

	_, err := tk.FetchDexPrices(ctx, FetchPricesParams{})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = tk.FetchCexPrices(ctx, FetchPricesParams{Tokens: []string{"ETH", " "}})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = tk.DetectArbitrage(ctx, DetectParams{MinProfitPercent: -1})
	assert.ErrorIs(t, err, ErrInvalidParams)

	trade := NewExecuteTradeParams()
	trade.Opportunity = validOpportunity()
	_, err = tk.ExecuteTrade(ctx, trade)
	assert.ErrorIs(t, err, ErrInvalidParams, "amount defaults to zero")

	trade.Amount = 100
	trade.MaxSlippage = -0.1
	_, err = tk.ExecuteTrade(ctx, trade)
	assert.ErrorIs(t, err, ErrInvalidParams)

	trade.MaxSlippage = 0.5
	trade.Opportunity.BuyPrice = 0
	_, err = tk.ExecuteTrade(ctx, trade)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = tk.MonitorMarket(ctx, MonitorParams{Tokens: []string{"ETH"}, Duration: 0})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = tk.BroadcastOpportunity(ctx, BroadcastParams{Opportunity: validOpportunity(), Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = tk.TrackPortfolio(ctx, PortfolioParams{Period: "1y"})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestParamDefaults(t *testing.T) {
	d := NewDetectParams()
	assert.Equal(t, 0.5, d.MinProfitPercent)
	assert.True(t, d.IncludeFees)

	e := NewExecuteTradeParams()
	assert.Equal(t, 0.5, e.MaxSlippage)
	assert.True(t, e.DryRun)

	assert.Equal(t, 60.0, NewMonitorParams().Duration)
	assert.Equal(t, model.PriorityMedium, NewBroadcastParams().Priority)
	assert.Equal(t, "24h", NewPortfolioParams().Period)
}
