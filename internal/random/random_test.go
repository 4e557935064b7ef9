package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewIsDeterministicForSeed(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.IntRange(0, 1000), b.IntRange(0, 1000))
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestIntRangeStaysInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.IntRange(-1000, 1000).Draw(t, "lo")
		hi := lo + rapid.IntRange(0, 1000).Draw(t, "width")
		src := New(rapid.Uint64().Draw(t, "seed"))

		v := src.IntRange(lo, hi)
		if v < lo || v > hi {
			t.Fatalf("IntRange(%d, %d) = %d", lo, hi, v)
		}
	})
}

func TestIntRangePanicsOnInvertedBounds(t *testing.T) {
	assert.Panics(t, func() { New(1).IntRange(5, 4) })
}

func TestBernoulliExtremes(t *testing.T) {
	src := New(7)
	for i := 0; i < 1000; i++ {
		assert.False(t, src.Bernoulli(0))
		assert.True(t, src.Bernoulli(1))
	}
}

func TestUniform(t *testing.T) {
	src := New(3)
	for i := 0; i < 1000; i++ {
		v := Uniform(src, 1.3, 1.7)
		assert.GreaterOrEqual(t, v, 1.3)
		assert.Less(t, v, 1.7)
	}
}

func TestSequenceReplaysInOrder(t *testing.T) {
	seq := &Sequence{Ints: []int{3, 9}, Floats: []float64{0.05, 0.95}}

	assert.Equal(t, 3, seq.IntRange(0, 5))
	assert.True(t, seq.Bernoulli(0.1))
	assert.False(t, seq.Bernoulli(0.1))
	assert.Equal(t, 9, seq.IntRange(9, 9))
	assert.Panics(t, func() { seq.IntRange(0, 1) })
}
