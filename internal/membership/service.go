// internal/membership/service.go
package membership

import (
	"context"
	"time"
)

// Repository defines the member storage operations used within one
// simulated day.
type Repository interface {
	CountMembers(ctx context.Context) (int, error)
	// FirstJoinDate returns the creation date of the earliest stored
	// member. ok is false when there are no members.
	FirstJoinDate(ctx context.Context) (day time.Time, ok bool, err error)
	// InsertMembers stores the members and assigns their IDs in place.
	InsertMembers(ctx context.Context, members []*Member) error
	InsertLifecycleParams(ctx context.Context, params []LifecycleParams) error

	// DuePromotions returns free members whose created date plus
	// DaysToPaid equals day.
	DuePromotions(ctx context.Context, day time.Time) ([]int64, error)
	PromoteMembers(ctx context.Context, ids []int64, day time.Time) error
	// DueQuits returns non-quit members whose created date plus DaysToQuit
	// equals day, with their current status.
	DueQuits(ctx context.Context, day time.Time) ([]MemberStatus, error)
	QuitMembers(ctx context.Context, ids []int64, day time.Time) error
	AppendStatusChanges(ctx context.Context, changes []StatusChange) error
}

// ProfileSource supplies names and addresses for new members.
type ProfileSource interface {
	LastName() string
	FirstName() string
	Address() string
}
