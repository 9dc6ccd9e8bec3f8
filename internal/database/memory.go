package database

import (
	"context"
	"sync"
	"time"

	"arbscout/internal/model"
)

// MemoryRepository keeps the ledger for the lifetime of the process.
type MemoryRepository struct {
	mu     sync.RWMutex
	trades []model.TradeFill
}

// NewMemoryRepository creates an empty ledger.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) LogTrade(ctx context.Context, fill model.TradeFill) error {
	r.mu.Lock()
	r.trades = append(r.trades, fill)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) ListTrades(ctx context.Context, since time.Time) ([]model.TradeFill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.TradeFill, 0, len(r.trades))
	for _, t := range r.trades {
		if !t.ExecutedAt.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}
