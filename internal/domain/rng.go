package domain

import "math/rand/v2"

// StdRNG delegates to the auto-seeded math/rand/v2 top-level source.
type StdRNG struct{}

func (StdRNG) Intn(n int) int { return rand.IntN(n) }

// SeededRNG is a reproducible RNG backed by a PCG source.
type SeededRNG struct {
	r *rand.Rand
}

func NewSeededRNG(seed1, seed2 uint64) *SeededRNG {
	return &SeededRNG{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *SeededRNG) Intn(n int) int { return s.r.IntN(n) }
