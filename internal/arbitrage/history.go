package arbitrage

import (
	"sync"

	"arbscout/internal/model"
)

// DefaultHistoryCapacity bounds the opportunity history.
const DefaultHistoryCapacity = 100

// History is a bounded ring of detected opportunities. When full the oldest entry is evicted.
type History struct {
	mu    sync.Mutex
	buf   []model.ArbitrageOpportunity
	start int
	size  int
}

// NewHistory creates a History holding at most capacity entries.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{buf: make([]model.ArbitrageOpportunity, capacity)}
}

// Push appends opp, evicting the oldest entry when at capacity.
func (h *History) Push(opp model.ArbitrageOpportunity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = opp
		h.size++
		return
	}
	h.buf[h.start] = opp
	h.start = (h.start + 1) % len(h.buf)
}

// Len reports the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

// Snapshot returns the stored entries, newest first.
func (h *History) Snapshot() []model.ArbitrageOpportunity {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]model.ArbitrageOpportunity, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+h.size-1-i)%len(h.buf)]
	}
	return out
}
