package random

import "fmt"

// Sequence replays scripted draws in order. It is meant for tests that need
// to force a specific branch of a distribution.
//
// IntRange consumes Ints, Float64 and Bernoulli consume Floats. A scripted
// int outside the requested range is an error in the test and panics.
type Sequence struct {
	Ints   []int
	Floats []float64
}

func (s *Sequence) IntRange(lo, hi int) int {
	if len(s.Ints) == 0 {
		panic("random: sequence has no ints left")
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < lo || v > hi {
		panic(fmt.Sprintf("random: scripted int %d outside [%d, %d]", v, lo, hi))
	}
	return v
}

func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		panic("random: sequence has no floats left")
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

func (s *Sequence) Bernoulli(p float64) bool {
	return s.Float64() < p
}

func (s *Sequence) Uint64() uint64 {
	return 1
}
