// internal/membership/domain.go
package membership

import (
	"time"
)

// Status is the persisted membership status.
type Status int

// Status values move only forward: Free -> Paid -> Quit, or Free -> Quit.
const (
	StatusFree Status = 0
	StatusPaid Status = 1
	StatusQuit Status = 9
)

func (s Status) String() string {
	switch s {
	case StatusFree:
		return "free"
	case StatusPaid:
		return "paid"
	case StatusQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Member represents a simulated customer.
type Member struct {
	ID          int64      `json:"id"`
	LastName    string     `json:"last_name"`
	FirstName   string     `json:"first_name"`
	BirthDate   time.Time  `json:"birth_date"`
	Gender      int        `json:"gender"`
	Address     string     `json:"address"`
	Status      Status     `json:"status"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	QuitAt      *time.Time `json:"quit_at,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FullName is the name snapshot written onto purchases.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// LifecycleParams holds the latent schedule of a member. It is written once
// at creation and never updated.
type LifecycleParams struct {
	MemberID    int64 `json:"member_id"`
	DaysToPaid  *int  `json:"days_to_paid,omitempty"`
	DaysToSleep *int  `json:"days_to_sleep,omitempty"`
	DaysToQuit  *int  `json:"days_to_quit,omitempty"`
}

// StatusChange is one row of the append-only status log.
type StatusChange struct {
	MemberID  int64     `json:"member_id"`
	Before    Status    `json:"status_before"`
	After     Status    `json:"status_after"`
	ChangedAt time.Time `json:"changed_at"`
}

// MemberStatus pairs a member with the status observed when it was read.
type MemberStatus struct {
	MemberID int64
	Status   Status
}

// Profile is the slice of a member the activity simulation needs.
type Profile struct {
	ID      int64
	Name    string
	Address string
	Status  Status
}
