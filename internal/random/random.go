// internal/random/random.go
package random

import (
	"fmt"
	"math/rand/v2"
)

// Source is the only way simulation code draws randomness. A run threads a
// single Source through every stochastic function so that a seed reproduces
// the whole run.
type Source interface {
	// IntRange returns a uniform integer in [lo, hi].
	IntRange(lo, hi int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
	// Bernoulli reports true with probability p.
	Bernoulli(p float64) bool
	// Uint64 returns a uniform 64-bit value, used to seed collaborators.
	Uint64() uint64
}

// pcg implements Source on top of math/rand/v2.
type pcg struct {
	r *rand.Rand
}

// New creates a seeded Source.
func New(seed uint64) Source {
	return &pcg{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *pcg) IntRange(lo, hi int) int {
	if hi < lo {
		panic(fmt.Sprintf("random: invalid range [%d, %d]", lo, hi))
	}
	return lo + p.r.IntN(hi-lo+1)
}

func (p *pcg) Float64() float64 {
	return p.r.Float64()
}

func (p *pcg) Bernoulli(prob float64) bool {
	return p.r.Float64() < prob
}

func (p *pcg) Uint64() uint64 {
	return p.r.Uint64()
}

// Uniform returns a uniform float in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}
