package game

import (
	"math"
	"math/rand"
)

// Rand is the randomness source the simulation draws from.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source. Equal seeds give equal runs for equal
// inputs.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

func (s *Sim) randomFloat() float64 {
	if s != nil && s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}

func (s *Sim) randomRange(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.randomFloat()*(max-min)
}

func (s *Sim) randomAngle() float64 {
	return s.randomFloat() * 2 * math.Pi
}

// randomIndex returns an index in [0, n)
func (s *Sim) randomIndex(n int) int {
	if n <= 1 {
		return 0
	}
	i := int(s.randomFloat() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func (s *Sim) chance(p float64) bool {
	return s.randomFloat() < p
}
