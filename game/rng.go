package game

import "math/rand/v2"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

type pcgRNG struct {
	r *rand.Rand
}

func (p *pcgRNG) Intn(n int) int { return p.r.IntN(n) }

// NewSeededRNG returns a reproducible RNG. The same seed yields the same draw order.
func NewSeededRNG(seed uint64) RNG {
	return &pcgRNG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type autoRNG struct{}

func (autoRNG) Intn(n int) int { return rand.IntN(n) }

// NewRNG returns an RNG backed by the auto-seeded global source.
func NewRNG() RNG {
	return autoRNG{}
}
