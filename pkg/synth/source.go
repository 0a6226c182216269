package synth

import (
	"math"
	"math/rand"
)

// DefaultSeed matches the seed used by the reference fixtures.
const DefaultSeed int64 = 42

// Source is the owned random stream threaded through every generator.
// It is not safe for concurrent use.
type Source struct {
	rng  *rand.Rand
	seed int64
}

// NewSource returns a deterministic source for seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() int64 { return s.seed }

// IntRange returns a uniform integer in [lo, hi].
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Uniform returns a uniform float in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// Chance reports true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.rng.Float64() < p
}

// Index returns a uniform index in [0, n). n must be positive.
func (s *Source) Index(n int) int {
	return s.rng.Intn(n)
}

// WeightedIndex draws an index with probability proportional to weights.
// Weights need not sum to one. Returns -1 when no weight is positive.
func (s *Source) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	target := s.rng.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		target -= w
		if target < 0 {
			return i
		}
	}
	// Float rounding can leave target at ~0 after the final positive weight.
	return last
}

// Pick returns a uniform element of items. items must be non-empty.
func Pick[T any](s *Source, items []T) T {
	return items[s.Index(len(items))]
}

// Round2 rounds to two decimals, the precision used for every serialized score.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
