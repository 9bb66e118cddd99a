// Package walk provides the shared random-walk primitives used by the
// price walk engine and the performance synthesizer.
package walk

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// StepSource draws one multiplicative step factor for a random walk.
// Implementations must be safe to call repeatedly with the same generator.
type StepSource interface {
	Factor(r *rand.Rand) float64
}

// Uniform draws factors from 1 + U(-Spread, +Spread).
// A Spread of 0.05 yields the -5%..+5% walk used for coin prices.
type Uniform struct {
	Spread float64
}

func (u Uniform) Factor(r *rand.Rand) float64 {
	return 1 + (r.Float64()-0.5)*2*u.Spread
}

// CoinFlip returns Down or Up with equal probability.
// The default 0.9/1.1 pair drives the charted performance history.
type CoinFlip struct {
	Down float64
	Up   float64
}

func (c CoinFlip) Factor(r *rand.Rand) float64 {
	if r.Float64() < 0.5 {
		return c.Down
	}
	return c.Up
}

// Round2 rounds a value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// lockedSource serializes access to the underlying source. rand.Rand is
// not safe for concurrent use, and the services draw from their generator
// on every request goroutine.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewRand returns a generator seeded from the current time and safe for
// concurrent draws. Each component owns its own generator so calls never
// share mutable seed state across components.
func NewRand() *rand.Rand {
	src := rand.NewSource(time.Now().UnixNano()).(rand.Source64)
	return rand.New(&lockedSource{src: src})
}
