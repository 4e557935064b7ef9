package purchasing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopsim/internal/catalog"
	"shopsim/internal/membership"
	"shopsim/internal/random"
)

type fakeRepo struct {
	active    []membership.Profile
	logins    []Login
	purchases []*Purchase
	failOn    string
	nextID    int64
}

func (r *fakeRepo) ActiveMembers(ctx context.Context, day time.Time) ([]membership.Profile, error) {
	if r.failOn == "active" {
		return nil, errors.New("boom")
	}
	return r.active, nil
}

func (r *fakeRepo) RecordLogins(ctx context.Context, logins []Login) error {
	if r.failOn == "logins" {
		return errors.New("boom")
	}
	r.logins = append(r.logins, logins...)
	return nil
}

func (r *fakeRepo) InsertPurchase(ctx context.Context, p *Purchase) error {
	if r.failOn == "purchase" {
		return errors.New("boom")
	}
	r.nextID++
	p.ID = r.nextID
	r.purchases = append(r.purchases, p)
	return nil
}

var testCatalog = []catalog.Product{
	{ID: 1, Name: "Curry", Price: 800},
	{ID: 2, Name: "Green Tea", Price: 500},
	{ID: 3, Name: "Melon", Price: 1400},
}

func population(free, paid int) []membership.Profile {
	var out []membership.Profile
	id := int64(1)
	for i := 0; i < free; i++ {
		out = append(out, membership.Profile{ID: id, Name: "Free Member", Address: "1 Main St", Status: membership.StatusFree})
		id++
	}
	for i := 0; i < paid; i++ {
		out = append(out, membership.Profile{ID: id, Name: "Paid Member", Address: "2 Main St", Status: membership.StatusPaid})
		id++
	}
	return out
}

func TestSimulate_EveryoneLogsInAndBuys(t *testing.T) {
	repo := &fakeRepo{active: population(3, 2)}
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	sim := NewSimulator(alwaysSource{}, zap.NewNop())

	activity, err := sim.Simulate(context.Background(), repo, day, testCatalog)
	require.NoError(t, err)

	assert.Equal(t, 3, activity.Free.Active)
	assert.Equal(t, 2, activity.Paid.Active)
	assert.Equal(t, FreeTier.Name, activity.Free.Tier)
	assert.Equal(t, PaidTier.Name, activity.Paid.Tier)
	assert.Equal(t, 5, activity.Logins())
	assert.Equal(t, 5, activity.Purchases())
	assert.Len(t, repo.logins, 5)
	assert.Len(t, repo.purchases, 5)

	var revenue int64
	for _, p := range repo.purchases {
		assert.True(t, p.PurchasedAt.After(day) || p.PurchasedAt.Equal(day))
		assert.True(t, p.PurchasedAt.Before(day.AddDate(0, 0, 1)))
		assert.NotEmpty(t, p.Lines)
		assert.NotZero(t, p.ID)
		revenue += int64(p.TotalAmount)
	}
	assert.Equal(t, revenue, activity.Revenue())
}

func TestSimulate_TierBehaviour(t *testing.T) {
	repo := &fakeRepo{active: population(1, 1)}
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// free: login 0.1 < 0.2, time 9:15:30, purchase 0.9 >= 0.3
	// paid: login 0.4 < 0.5, time 20:00:00, purchase 0.1 < 0.5,
	//       basket target 5000 -> Melon x4 = 5600, time 21:30:00
	src := &random.Sequence{
		Floats: []float64{0.1, 0.9, 0.4, 0.1},
		Ints:   []int{9, 15, 30, 20, 0, 0, 5000, 2, 4, 21, 30, 0},
	}
	sim := NewSimulator(src, zap.NewNop())

	activity, err := sim.Simulate(context.Background(), repo, day, testCatalog)
	require.NoError(t, err)

	assert.Equal(t, 1, activity.Free.Logins)
	assert.Equal(t, 0, activity.Free.Purchases)
	assert.Equal(t, 1, activity.Paid.Logins)
	assert.Equal(t, 1, activity.Paid.Purchases)
	assert.Equal(t, int64(5600), activity.Paid.Revenue)

	require.Len(t, repo.logins, 2)
	assert.Equal(t, Login{MemberID: 1, At: day.Add(9*time.Hour + 15*time.Minute + 30*time.Second)}, repo.logins[0])
	assert.Equal(t, Login{MemberID: 2, At: day.Add(20 * time.Hour)}, repo.logins[1])

	require.Len(t, repo.purchases, 1)
	p := repo.purchases[0]
	assert.Equal(t, int64(2), p.MemberID)
	assert.Equal(t, "Paid Member", p.MemberName)
	assert.Equal(t, "2 Main St", p.ShippingAddress)
	assert.Equal(t, day.Add(21*time.Hour+30*time.Minute), p.PurchasedAt)
	assert.Equal(t, 5600, p.TotalAmount)
	assert.Equal(t, []Line{{ProductID: 3, ProductName: "Melon", UnitPrice: 1400, Quantity: 4, Subtotal: 5600}}, p.Lines)
	assert.Empty(t, src.Ints)
	assert.Empty(t, src.Floats)
}

func TestSimulate_NoActiveMembers(t *testing.T) {
	repo := &fakeRepo{}
	sim := NewSimulator(&random.Sequence{}, zap.NewNop())

	activity, err := sim.Simulate(context.Background(), repo, time.Now(), testCatalog)
	require.NoError(t, err)
	assert.Zero(t, activity.Logins())
	assert.Nil(t, repo.logins)
}

func TestSimulate_PropagatesRepositoryErrors(t *testing.T) {
	for _, stage := range []string{"active", "logins", "purchase"} {
		t.Run(stage, func(t *testing.T) {
			repo := &fakeRepo{active: population(5, 5), failOn: stage}
			sim := NewSimulator(alwaysSource{}, zap.NewNop())

			_, err := sim.Simulate(context.Background(), repo, time.Now(), testCatalog)
			assert.Error(t, err)
		})
	}
}

// alwaysSource says yes to every Bernoulli draw and picks the low end of
// every range.
type alwaysSource struct{}

func (alwaysSource) IntRange(lo, hi int) int  { return lo }
func (alwaysSource) Float64() float64         { return 0 }
func (alwaysSource) Bernoulli(p float64) bool { return true }
func (alwaysSource) Uint64() uint64           { return 0 }
