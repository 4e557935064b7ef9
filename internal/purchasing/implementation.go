// internal/purchasing/implementation.go
package purchasing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shopsim/internal/catalog"
	"shopsim/internal/distribution"
	"shopsim/internal/membership"
	"shopsim/internal/random"
)

// Simulator drives daily logins and purchases of the active population.
type Simulator struct {
	src    random.Source
	logger *zap.Logger
}

// NewSimulator creates a new activity simulator.
func NewSimulator(src random.Source, logger *zap.Logger) *Simulator {
	return &Simulator{
		src:    src,
		logger: logger,
	}
}

// Simulate runs one day of activity. Active members are split by status
// into the free and paid tiers, which are simulated independently.
func (s *Simulator) Simulate(ctx context.Context, repo Repository, day time.Time, products []catalog.Product) (Activity, error) {
	day = membership.Date(day)

	active, err := repo.ActiveMembers(ctx, day)
	if err != nil {
		return Activity{}, fmt.Errorf("failed to load active members: %w", err)
	}

	var free, paid []membership.Profile
	for _, m := range active {
		switch m.Status {
		case membership.StatusFree:
			free = append(free, m)
		case membership.StatusPaid:
			paid = append(paid, m)
		}
	}

	var result Activity
	if result.Free, err = s.simulateTier(ctx, repo, day, FreeTier, free, products); err != nil {
		return result, err
	}
	if result.Paid, err = s.simulateTier(ctx, repo, day, PaidTier, paid, products); err != nil {
		return result, err
	}

	s.logger.Debug("Simulated activity",
		zap.Time("date", day),
		zap.Int("active", result.ActiveCount()),
		zap.Int("logins", result.Logins()),
		zap.Int("purchases", result.Purchases()),
	)

	return result, nil
}

func (s *Simulator) simulateTier(ctx context.Context, repo Repository, day time.Time, tier Tier, members []membership.Profile, products []catalog.Product) (TierActivity, error) {
	stats := TierActivity{Tier: tier.Name, Active: len(members)}

	var loggedIn []membership.Profile
	for _, m := range members {
		if s.src.Bernoulli(tier.LoginRate) {
			loggedIn = append(loggedIn, m)
		}
	}
	if len(loggedIn) == 0 {
		return stats, nil
	}

	logins := make([]Login, 0, len(loggedIn))
	for _, m := range loggedIn {
		logins = append(logins, Login{MemberID: m.ID, At: distribution.TimeOfDay(s.src, day)})
	}
	if err := repo.RecordLogins(ctx, logins); err != nil {
		return stats, fmt.Errorf("failed to record %s logins: %w", tier.Name, err)
	}
	stats.Logins = len(logins)

	var purchasers []membership.Profile
	for _, m := range loggedIn {
		if s.src.Bernoulli(tier.PurchaseRate) {
			purchasers = append(purchasers, m)
		}
	}

	for _, m := range purchasers {
		basket, err := BuildBasket(s.src, products, tier.MinAmount, tier.MaxAmount)
		if err != nil {
			return stats, fmt.Errorf("failed to build basket: %w", err)
		}

		purchase := &Purchase{
			MemberID:        m.ID,
			MemberName:      m.Name,
			ShippingAddress: m.Address,
			PurchasedAt:     distribution.TimeOfDay(s.src, day),
			TotalAmount:     basket.Total,
			Lines:           basket.Lines,
		}
		if err := repo.InsertPurchase(ctx, purchase); err != nil {
			return stats, fmt.Errorf("failed to insert purchase for member %d: %w", m.ID, err)
		}

		stats.Purchases++
		stats.Revenue += int64(basket.Total)
	}

	return stats, nil
}
