package membership

import "time"

// Date truncates t to midnight UTC of its calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OffsetDate returns the calendar date days after createdAt.
func OffsetDate(createdAt time.Time, days int) time.Time {
	return Date(createdAt).AddDate(0, 0, days)
}

// DaysBetween returns the number of calendar days from from to to.
func DaysBetween(from, to time.Time) int {
	return int(Date(to).Sub(Date(from)).Hours() / 24)
}

// IsDormant reports whether a member with the given sleep offset is asleep
// on day. Dormancy is derived on every read and never stored.
func IsDormant(day, createdAt time.Time, daysToSleep *int) bool {
	if daysToSleep == nil {
		return false
	}
	return !OffsetDate(createdAt, *daysToSleep).After(Date(day))
}

// PromotionDue reports whether m is promoted to paid exactly on day.
func PromotionDue(m *Member, p LifecycleParams, day time.Time) bool {
	if m.Status != StatusFree || p.DaysToPaid == nil {
		return false
	}
	return OffsetDate(m.CreatedAt, *p.DaysToPaid).Equal(Date(day))
}

// QuitDue reports whether m quits exactly on day.
func QuitDue(m *Member, p LifecycleParams, day time.Time) bool {
	if m.Status == StatusQuit || p.DaysToQuit == nil {
		return false
	}
	return OffsetDate(m.CreatedAt, *p.DaysToQuit).Equal(Date(day))
}
