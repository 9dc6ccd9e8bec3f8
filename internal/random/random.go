// Package random isolates the randomness used by the price, trade and report
// simulations so tests can substitute fixed sequences.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Default returns a goroutine-safe source backed by the runtime generator.
func Default() Source {
	return globalSource{}
}

// Uniform draws a value in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// IntRange draws an integer in [lo, lo+n).
func IntRange(src Source, lo, n int) int {
	v := int(src.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return lo + v
}

// Sequence replays fixed values in order and wraps around when exhausted.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequence creates a Sequence. With no values it always yields 0.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
