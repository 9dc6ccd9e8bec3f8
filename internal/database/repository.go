package database

import (
	"context"
	"time"

	"arbscout/internal/model"
)

// Repository defines the standard interface for the trade ledger.
type Repository interface {
	LogTrade(ctx context.Context, fill model.TradeFill) error
	// ListTrades returns fills executed at or after since, oldest first.
	ListTrades(ctx context.Context, since time.Time) ([]model.TradeFill, error)
}
