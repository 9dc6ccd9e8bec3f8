package exchange

import (
	"context"
	"log/slog"

	"arbscout/internal/model"
)

// DefaultReferencePrice is used for symbols absent from both the lookup and the fallback table.
const DefaultReferencePrice = 100.0

// FallbackPrices holds recent USD prices used when the lookup cannot answer.
var FallbackPrices = map[string]float64{
	"BTC":   67000,
	"ETH":   3400,
	"SOL":   175,
	"USDC":  1.00,
	"USDT":  1.00,
	"BNB":   620,
	"XRP":   0.62,
	"ADA":   0.58,
	"AVAX":  42,
	"MATIC": 0.95,
	"DOGE":  0.15,
	"DOT":   7.5,
	"LINK":  15.2,
	"UNI":   9.8,
	"ATOM":  10.5,
}

// FallbackPrice is the second stage of the resolution chain.
func FallbackPrice(symbol string) (float64, bool) {
	p, ok := FallbackPrices[model.NormalizeSymbol(symbol)]
	return p, ok
}

// Resolver resolves reference prices through lookup, fallback table and default, in that order.
type Resolver struct {
	logger *slog.Logger
	lookup PriceLookup
}

// NewResolver creates a Resolver. A nil lookup starts the chain at the fallback table.
func NewResolver(logger *slog.Logger, lookup PriceLookup) *Resolver {
	return &Resolver{logger: logger, lookup: lookup}
}

// Resolve returns a positive reference price for every requested symbol.
// Lookup failures are logged and never returned.
func (r *Resolver) Resolve(ctx context.Context, symbols []string) map[string]float64 {
	looked := r.lookupStage(ctx, symbols)

	prices := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		s = model.NormalizeSymbol(s)
		if p, ok := looked[s]; ok && p > 0 {
			prices[s] = p
			continue
		}
		if p, ok := FallbackPrice(s); ok {
			r.logger.Info("Resolver: using fallback price", "symbol", s, "price", p)
			prices[s] = p
			continue
		}
		r.logger.Info("Resolver: using default price", "symbol", s, "price", DefaultReferencePrice)
		prices[s] = DefaultReferencePrice
	}
	return prices
}

func (r *Resolver) lookupStage(ctx context.Context, symbols []string) map[string]float64 {
	if r.lookup == nil {
		return nil
	}
	prices, err := r.lookup.LookupUSD(ctx, symbols)
	if err != nil {
		r.logger.Warn("Resolver: price lookup failed, falling back", "lookup", r.lookup.GetName(), "error", err)
		return nil
	}
	return prices
}
