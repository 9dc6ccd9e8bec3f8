// Package cache keeps the latest observed quote per (exchange, symbol).
package cache

import (
	"iter"
	"sync"

	"arbscout/internal/model"
)

type key struct {
	exchange string
	symbol   string
}

// PriceCache is a last-write-wins store with no expiry and no capacity bound.
type PriceCache struct {
	mu     sync.RWMutex
	quotes map[key]model.PriceQuote
}

// NewPriceCache creates an empty cache.
func NewPriceCache() *PriceCache {
	return &PriceCache{quotes: make(map[key]model.PriceQuote)}
}

// Put overwrites any quote already stored for the same exchange and symbol.
func (c *PriceCache) Put(q model.PriceQuote) {
	q.Symbol = model.NormalizeSymbol(q.Symbol)
	c.mu.Lock()
	c.quotes[key{q.Exchange, q.Symbol}] = q
	c.mu.Unlock()
}

// Get returns the cached quote for exchange and symbol.
func (c *PriceCache) Get(exchange, symbol string) (model.PriceQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[key{exchange, model.NormalizeSymbol(symbol)}]
	return q, ok
}

// Len reports the number of cached quotes.
func (c *PriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quotes)
}

// All yields a snapshot of the cache taken when iteration starts.
// Each range over the sequence takes a fresh snapshot.
func (c *PriceCache) All() iter.Seq[model.PriceQuote] {
	return func(yield func(model.PriceQuote) bool) {
		c.mu.RLock()
		snapshot := make([]model.PriceQuote, 0, len(c.quotes))
		for _, q := range c.quotes {
			snapshot = append(snapshot, q)
		}
		c.mu.RUnlock()

		for _, q := range snapshot {
			if !yield(q) {
				return
			}
		}
	}
}
