package distribution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"shopsim/internal/random"
)

func TestLifecycleOffsetsInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := random.New(rapid.Uint64().Draw(t, "seed"))
		o := LifecycleOffsets(src)

		if o.ToSleep != nil && (o.ToPaid != nil || o.ToQuit != nil) {
			t.Fatalf("sleep offset must be exclusive: %+v", o)
		}
		for name, v := range map[string]*int{"paid": o.ToPaid, "sleep": o.ToSleep} {
			if v != nil && (*v < MinOffsetDays || *v > MaxOffsetDays) {
				t.Fatalf("%s offset %d out of range", name, *v)
			}
		}
		if o.ToQuit != nil {
			if *o.ToQuit < MinOffsetDays {
				t.Fatalf("quit offset %d below minimum", *o.ToQuit)
			}
			if o.ToPaid != nil && *o.ToQuit < *o.ToPaid+30 {
				t.Fatalf("quit %d earlier than paid %d + 30", *o.ToQuit, *o.ToPaid)
			}
		}
	})
}

func TestLifecycleOffsetsPaidThenQuitRaisesFloor(t *testing.T) {
	// paid drawn (0.01 < 0.10) at 170, quit drawn (0.01 < 0.05) at 40.
	seq := &random.Sequence{
		Floats: []float64{0.01, 0.01},
		Ints:   []int{170, 40},
	}

	o := LifecycleOffsets(seq)

	require.NotNil(t, o.ToPaid)
	require.NotNil(t, o.ToQuit)
	assert.Nil(t, o.ToSleep)
	assert.Equal(t, 170, *o.ToPaid)
	assert.Equal(t, 200, *o.ToQuit)
}

func TestLifecycleOffsetsSleeperNeverQuits(t *testing.T) {
	// paid skipped (0.5), sleep drawn (0.1 < 0.2) at 60; quit is never rolled.
	seq := &random.Sequence{
		Floats: []float64{0.5, 0.1},
		Ints:   []int{60},
	}

	o := LifecycleOffsets(seq)

	assert.Nil(t, o.ToPaid)
	assert.Nil(t, o.ToQuit)
	require.NotNil(t, o.ToSleep)
	assert.Equal(t, 60, *o.ToSleep)
	assert.Empty(t, seq.Floats)
}

func TestLifecycleOffsetsRates(t *testing.T) {
	src := random.New(2024)
	const n = 50000
	var paid, sleep, quit int
	for i := 0; i < n; i++ {
		o := LifecycleOffsets(src)
		if o.ToPaid != nil {
			paid++
		}
		if o.ToSleep != nil {
			sleep++
		}
		if o.ToQuit != nil {
			quit++
		}
	}

	assert.InDelta(t, 0.10, float64(paid)/n, 0.01)
	assert.InDelta(t, 0.90*0.20, float64(sleep)/n, 0.01)
	assert.InDelta(t, (1-0.90*0.20)*0.05, float64(quit)/n, 0.01)
}

func TestBirthDate(t *testing.T) {
	ref := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	rapid.Check(t, func(t *rapid.T) {
		src := random.New(rapid.Uint64().Draw(t, "seed"))
		b := BirthDate(src, ref)

		age := ref.Year() - b.Year()
		if age < 18 || age > 70 {
			t.Fatalf("age %d out of range", age)
		}
		if b.Day() < 1 || b.Day() > 28 {
			t.Fatalf("day of month %d out of range", b.Day())
		}
	})
}

func TestBirthDateBuckets(t *testing.T) {
	ref := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	young := BirthDate(&random.Sequence{Floats: []float64{0.49}, Ints: []int{18, 1, 1}}, ref)
	middle := BirthDate(&random.Sequence{Floats: []float64{0.50}, Ints: []int{31, 6, 15}}, ref)
	old := BirthDate(&random.Sequence{Floats: []float64{0.90}, Ints: []int{70, 12, 28}}, ref)

	assert.Equal(t, time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC), young)
	assert.Equal(t, time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC), middle)
	assert.Equal(t, time.Date(1956, 12, 28, 0, 0, 0, 0, time.UTC), old)
}

func TestGender(t *testing.T) {
	assert.Equal(t, GenderMale, Gender(&random.Sequence{Floats: []float64{0.069}}))
	assert.Equal(t, GenderOther, Gender(&random.Sequence{Floats: []float64{0.07}}))
	assert.Equal(t, GenderFemale, Gender(&random.Sequence{Floats: []float64{0.08}}))
	assert.Equal(t, GenderFemale, Gender(&random.Sequence{Floats: []float64{0.999}}))
}

func TestRoundPrice(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{9, 0},
		{505, 500},
		{999, 990},
		{1000, 1000},
		{1099, 1000},
		{1499, 1400},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundPrice(tt.in), "RoundPrice(%d)", tt.in)
	}
}

func TestTimeOfDayStaysOnDate(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	src := random.New(11)
	for i := 0; i < 500; i++ {
		ts := TimeOfDay(src, day)
		require.Equal(t, day.Year(), ts.Year())
		require.Equal(t, day.YearDay(), ts.YearDay())
	}
}
