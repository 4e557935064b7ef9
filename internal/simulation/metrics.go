package simulation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type runMetrics struct {
	members   metric.Int64Counter
	changes   metric.Int64Counter
	logins    metric.Int64Counter
	purchases metric.Int64Counter
	revenue   metric.Int64Counter
}

func newRunMetrics() (*runMetrics, error) {
	meter := otel.Meter("shopsim/simulation")

	var m runMetrics
	var err error
	if m.members, err = meter.Int64Counter("shopsim.members.created",
		metric.WithDescription("Members registered by the simulation")); err != nil {
		return nil, fmt.Errorf("failed to create members counter: %w", err)
	}
	if m.changes, err = meter.Int64Counter("shopsim.status.changes",
		metric.WithDescription("Membership status transitions applied")); err != nil {
		return nil, fmt.Errorf("failed to create status counter: %w", err)
	}
	if m.logins, err = meter.Int64Counter("shopsim.logins",
		metric.WithDescription("Member logins")); err != nil {
		return nil, fmt.Errorf("failed to create logins counter: %w", err)
	}
	if m.purchases, err = meter.Int64Counter("shopsim.purchases",
		metric.WithDescription("Completed purchases")); err != nil {
		return nil, fmt.Errorf("failed to create purchases counter: %w", err)
	}
	if m.revenue, err = meter.Int64Counter("shopsim.revenue",
		metric.WithDescription("Purchase revenue"),
		metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("failed to create revenue counter: %w", err)
	}
	return &m, nil
}

func (m *runMetrics) record(ctx context.Context, d DayStats) {
	free := metric.WithAttributes(attribute.String("tier", "free"))
	paid := metric.WithAttributes(attribute.String("tier", "paid"))

	m.members.Add(ctx, int64(d.NewMembers))
	m.changes.Add(ctx, int64(d.Promoted), metric.WithAttributes(attribute.String("transition", "promote")))
	m.changes.Add(ctx, int64(d.Quit), metric.WithAttributes(attribute.String("transition", "quit")))
	m.logins.Add(ctx, int64(d.FreeLogins), free)
	m.logins.Add(ctx, int64(d.PaidLogins), paid)
	m.purchases.Add(ctx, int64(d.FreePurchases), free)
	m.purchases.Add(ctx, int64(d.PaidPurchases), paid)
	m.revenue.Add(ctx, d.Revenue)
}
