package simulation

import (
	"time"

	"github.com/google/uuid"
)

// DayStats is what one simulated day produced.
type DayStats struct {
	Date          time.Time
	NewMembers    int
	Population    int
	Promoted      int
	Quit          int
	ActiveFree    int
	ActivePaid    int
	FreeLogins    int
	PaidLogins    int
	FreePurchases int
	PaidPurchases int
	Revenue       int64
}

func (d DayStats) Logins() int    { return d.FreeLogins + d.PaidLogins }
func (d DayStats) Purchases() int { return d.FreePurchases + d.PaidPurchases }

// Summary describes a finished run.
type Summary struct {
	RunID            uuid.UUID
	Seed             uint64
	Start            time.Time
	End              time.Time
	AnnualMultiplier float64
	DailyRate        float64
	Products         int
	MembersOnly      bool
	Days             []DayStats
}

// Totals folds the per-day statistics of the run. Population is the
// population after the last day.
func (s *Summary) Totals() DayStats {
	var t DayStats
	for _, d := range s.Days {
		t.NewMembers += d.NewMembers
		t.Population = d.Population
		t.Promoted += d.Promoted
		t.Quit += d.Quit
		t.FreeLogins += d.FreeLogins
		t.PaidLogins += d.PaidLogins
		t.FreePurchases += d.FreePurchases
		t.PaidPurchases += d.PaidPurchases
		t.Revenue += d.Revenue
	}
	return t
}
