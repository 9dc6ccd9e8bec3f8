package exchange

import (
	"fmt"
	"log/slog"
	"time"

	"arbscout/internal/config"
)

// NewLookup creates the reference price lookup named by the configured provider.
// The "static" provider has no external lookup and returns nil.
func NewLookup(logger *slog.Logger, cfg config.PriceSourceConfig) (PriceLookup, error) {
	switch cfg.Provider {
	case "coingecko":
		timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
		return NewCoinGeckoClient(logger, cfg.BaseURL, timeout, cfg.RequestsPerSecond), nil
	case "static":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown price provider: %s", cfg.Provider)
	}
}
