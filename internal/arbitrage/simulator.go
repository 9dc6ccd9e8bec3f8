package arbitrage

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"arbscout/internal/config"
	"arbscout/internal/model"
	"arbscout/internal/random"

	"github.com/google/uuid"
)

// ErrInvalidTrade is returned for trade inputs the simulator cannot price.
var ErrInvalidTrade = errors.New("invalid trade")

// VenueClassifier resolves the class of a named venue.
type VenueClassifier interface {
	ClassOf(name string) (model.VenueClass, bool)
}

// Simulator models the execution of an opportunity. It never moves funds.
type Simulator struct {
	logger *slog.Logger
	venues VenueClassifier
	cfg    config.TradeConfig
	rnd    random.Source
	now    func() time.Time
}

// NewSimulator creates a Simulator. venues may be nil when opportunities always carry venue classes.
func NewSimulator(logger *slog.Logger, venues VenueClassifier, cfg config.TradeConfig, rnd random.Source) *Simulator {
	if rnd == nil {
		rnd = random.Default()
	}
	return &Simulator{
		logger: logger,
		venues: venues,
		cfg:    cfg,
		rnd:    rnd,
		now:    time.Now,
	}
}

// Execute simulates buying opp on the cheap venue and selling on the expensive one.
// dryRun only changes the message.
func (s *Simulator) Execute(opp model.ArbitrageOpportunity, notionalUSD, maxSlippagePercent float64, dryRun bool) (model.TradeFill, error) {
	if notionalUSD <= 0 {
		return model.TradeFill{}, fmt.Errorf("%w: notional must be positive, got %v", ErrInvalidTrade, notionalUSD)
	}
	if maxSlippagePercent < 0 {
		return model.TradeFill{}, fmt.Errorf("%w: max slippage must not be negative, got %v", ErrInvalidTrade, maxSlippagePercent)
	}
	if opp.BuyPrice <= 0 || opp.SellPrice <= 0 {
		return model.TradeFill{}, fmt.Errorf("%w: prices must be positive", ErrInvalidTrade)
	}

	slippage := s.rnd.Float64() * maxSlippagePercent
	buyPrice := opp.BuyPrice * (1 + slippage/100)
	sellPrice := opp.SellPrice * (1 - slippage/100)

	buyFee := notionalUSD * s.cfg.FeePercent / 100
	sellFee := notionalUSD * s.cfg.FeePercent / 100
	gasFee := 0.0
	if s.onChainBuy(opp) {
		gasFee = s.cfg.GasFeeUSD
	}

	quantity := notionalUSD / buyPrice
	totalCost := notionalUSD + buyFee + gasFee
	totalRevenue := quantity*sellPrice - sellFee
	realized := totalRevenue - totalCost
	profit := model.RoundUSD(realized)

	executedAt := s.now()
	fill := model.TradeFill{
		TradeID:         fmt.Sprintf("trade-%d-%s", executedAt.UnixMilli(), uuid.NewString()),
		Symbol:          opp.Symbol,
		Success:         realized > 0,
		ActualProfit:    profit,
		SlippagePercent: slippage,
		BuyLeg: model.TradeLeg{
			Exchange: opp.BuyExchange,
			Amount:   notionalUSD,
			Price:    buyPrice,
			Fee:      buyFee + gasFee,
		},
		SellLeg: model.TradeLeg{
			Exchange: opp.SellExchange,
			Amount:   quantity,
			Price:    sellPrice,
			Fee:      sellFee,
		},
		DryRun:     dryRun,
		ExecutedAt: executedAt,
	}
	if dryRun {
		fill.Message = fmt.Sprintf("[DRY RUN] Trade simulation completed. Estimated profit: $%.2f", profit)
	} else {
		fill.Message = fmt.Sprintf("Trade executed successfully! Profit: $%.2f", profit)
	}

	s.logger.Info("Trade simulated",
		"tradeId", fill.TradeID,
		"symbol", opp.Symbol,
		"buyExchange", opp.BuyExchange,
		"sellExchange", opp.SellExchange,
		"slippagePercent", slippage,
		"actualProfit", profit,
		"dryRun", dryRun,
	)
	return fill, nil
}

func (s *Simulator) onChainBuy(opp model.ArbitrageOpportunity) bool {
	if opp.BuyVenueClass != "" {
		return opp.BuyVenueClass == model.VenueOnChain
	}
	if s.venues == nil {
		return false
	}
	class, ok := s.venues.ClassOf(opp.BuyExchange)
	return ok && class == model.VenueOnChain
}
