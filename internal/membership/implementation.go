// internal/membership/implementation.go
package membership

import (
	"context"
	"fmt"
	"time"

	"shopsim/internal/distribution"
	"shopsim/internal/random"
)

// Factory materializes new members together with their latent schedule.
type Factory struct {
	src      random.Source
	profiles ProfileSource
}

// NewFactory creates a new member factory.
func NewFactory(src random.Source, profiles ProfileSource) *Factory {
	return &Factory{
		src:      src,
		profiles: profiles,
	}
}

// NewMembers builds n free members created on day. IDs are left for the
// repository to assign.
func (f *Factory) NewMembers(day time.Time, n int) []*Member {
	day = Date(day)
	members := make([]*Member, 0, n)
	for i := 0; i < n; i++ {
		members = append(members, &Member{
			LastName:  f.profiles.LastName(),
			FirstName: f.profiles.FirstName(),
			BirthDate: distribution.BirthDate(f.src, day),
			Gender:    distribution.Gender(f.src),
			Address:   f.profiles.Address(),
			Status:    StatusFree,
			CreatedAt: day,
			UpdatedAt: day,
		})
	}
	return members
}

// LifecycleParams draws the latent schedule for members that already carry
// their assigned IDs.
func (f *Factory) LifecycleParams(members []*Member) []LifecycleParams {
	params := make([]LifecycleParams, 0, len(members))
	for _, m := range members {
		o := distribution.LifecycleOffsets(f.src)
		params = append(params, LifecycleParams{
			MemberID:    m.ID,
			DaysToPaid:  o.ToPaid,
			DaysToSleep: o.ToSleep,
			DaysToQuit:  o.ToQuit,
		})
	}
	return params
}

// Register creates n members on day, stores them and their lifecycle
// parameters, and returns the stored members.
func (f *Factory) Register(ctx context.Context, repo Repository, day time.Time, n int) ([]*Member, error) {
	if n <= 0 {
		return nil, nil
	}

	members := f.NewMembers(day, n)
	if err := repo.InsertMembers(ctx, members); err != nil {
		return nil, fmt.Errorf("failed to insert members: %w", err)
	}

	if err := repo.InsertLifecycleParams(ctx, f.LifecycleParams(members)); err != nil {
		return nil, fmt.Errorf("failed to insert lifecycle params: %w", err)
	}

	return members, nil
}
