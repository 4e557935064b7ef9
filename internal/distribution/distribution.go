// Package distribution holds the fixed draws used to populate members and
// the catalog. Every function is pure over the random.Source it is given.
package distribution

import (
	"time"

	"shopsim/internal/random"
)

// Gender codes stored on a member.
const (
	GenderMale   = 0
	GenderFemale = 1
	GenderOther  = 2
)

// Bounds shared by every latent lifecycle offset, in days.
const (
	MinOffsetDays = 30
	MaxOffsetDays = 180
)

const (
	paidProbability  = 0.10
	sleepProbability = 0.20
	quitProbability  = 0.05

	// paidQuitGapDays is the minimum distance between promotion and churn
	// for a member scheduled for both.
	paidQuitGapDays = 30
)

// Offsets are the latent lifecycle offsets of one member. A nil field means
// the transition never happens.
type Offsets struct {
	ToPaid  *int
	ToSleep *int
	ToQuit  *int
}

// BirthDate draws a birth date relative to ref.
//
// 50% are aged 18-30, 40% are 31-60 and the remaining 10% are 61-70. The
// day of month stays within 1..28 so every month is valid.
func BirthDate(src random.Source, ref time.Time) time.Time {
	var age int
	switch r := src.Float64(); {
	case r < 0.50:
		age = src.IntRange(18, 30)
	case r < 0.90:
		age = src.IntRange(31, 60)
	default:
		age = src.IntRange(61, 70)
	}

	month := time.Month(src.IntRange(1, 12))
	day := src.IntRange(1, 28)
	return time.Date(ref.Year()-age, month, day, 0, 0, 0, 0, time.UTC)
}

// Gender draws a gender code: 7% male, 1% other, 92% female.
func Gender(src random.Source) int {
	switch r := src.Float64(); {
	case r < 0.07:
		return GenderMale
	case r < 0.08:
		return GenderOther
	default:
		return GenderFemale
	}
}

// LifecycleOffsets draws the latent schedule of a new member. Each step is
// gated on the previous one: a member scheduled to go paid never sleeps, and
// a sleeping member never quits. A paid member that also quits does so at
// least paidQuitGapDays after promotion.
func LifecycleOffsets(src random.Source) Offsets {
	var o Offsets

	if src.Bernoulli(paidProbability) {
		o.ToPaid = intPtr(offsetDays(src))
	}

	if o.ToPaid == nil && src.Bernoulli(sleepProbability) {
		o.ToSleep = intPtr(offsetDays(src))
	}

	if o.ToSleep == nil && src.Bernoulli(quitProbability) {
		quit := offsetDays(src)
		if o.ToPaid != nil && *o.ToPaid+paidQuitGapDays > quit {
			quit = *o.ToPaid + paidQuitGapDays
		}
		o.ToQuit = intPtr(quit)
	}

	return o
}

// RoundPrice rounds a raw price down to 10 units below 1000 and to 100
// units at or above it.
func RoundPrice(price int) int {
	if price < 1000 {
		return (price / 10) * 10
	}
	return (price / 100) * 100
}

// TimeOfDay returns a uniformly random second on the given date.
func TimeOfDay(src random.Source, day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		src.IntRange(0, 23), src.IntRange(0, 59), src.IntRange(0, 59), 0, day.Location())
}

func offsetDays(src random.Source) int {
	return src.IntRange(MinOffsetDays, MaxOffsetDays)
}

func intPtr(v int) *int {
	return &v
}
