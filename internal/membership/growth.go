package membership

import (
	"math"

	"shopsim/internal/random"
)

const (
	bootstrapDays   = 10
	bootstrapMin    = 50
	bootstrapMax    = 100
	trickleMax      = 3
	minAnnualGrowth = 1.3
	maxAnnualGrowth = 1.7
)

// GrowthScheduler decides how many members join on a simulated day.
type GrowthScheduler struct {
	annualMultiplier float64
	dailyRate        float64
}

// NewGrowthScheduler draws the run's annual growth multiplier and derives
// the compounding daily rate from it.
func NewGrowthScheduler(src random.Source) *GrowthScheduler {
	return NewGrowthSchedulerWithMultiplier(random.Uniform(src, minAnnualGrowth, maxAnnualGrowth))
}

// NewGrowthSchedulerWithMultiplier builds a scheduler for a fixed annual multiplier.
func NewGrowthSchedulerWithMultiplier(multiplier float64) *GrowthScheduler {
	return &GrowthScheduler{
		annualMultiplier: multiplier,
		dailyRate:        math.Pow(multiplier, 1.0/365) - 1,
	}
}

func (g *GrowthScheduler) AnnualMultiplier() float64 { return g.annualMultiplier }

func (g *GrowthScheduler) DailyRate() float64 { return g.dailyRate }

// NewMembers returns the number of members to create elapsedDays after the
// start of the run. The first days bootstrap a base population; afterwards
// growth compounds on the population with a small random floor.
func (g *GrowthScheduler) NewMembers(src random.Source, elapsedDays, population int) int {
	if elapsedDays < bootstrapDays {
		return src.IntRange(bootstrapMin, bootstrapMax)
	}

	trickle := src.IntRange(0, trickleMax)
	compounded := int(math.Floor(float64(population) * g.dailyRate))
	return max(trickle, compounded)
}
