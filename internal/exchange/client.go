package exchange

import "context"

// PriceLookup resolves USD reference prices for symbols from an external service.
// Symbols missing from the result map could not be resolved.
type PriceLookup interface {
	GetName() string
	LookupUSD(ctx context.Context, symbols []string) (map[string]float64, error)
}
