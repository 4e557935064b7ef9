package postgres

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shopsim/internal/membership"
	"shopsim/internal/purchasing"
)

// ActiveMembers excludes quit members and members whose sleep date has
// been reached.
func (t *tx) ActiveMembers(ctx context.Context, day time.Time) ([]membership.Profile, error) {
	ctx, span := t.tracer.Start(ctx, "store.active_members")
	defer span.End()

	rows, err := t.tx.QueryContext(ctx, `
		SELECT m.id, m.last_name, m.first_name, m.address, m.status
		FROM member m
		JOIN member_property mp ON m.id = mp.id
		WHERE m.status != 9
		  AND (
		    mp.to_sleep_days IS NULL
		    OR m.created_at::date + mp.to_sleep_days > $1::date
		  )
		ORDER BY m.id ASC
	`, membership.Date(day))
	if err != nil {
		return nil, fmt.Errorf("query active members: %w", classify(err))
	}
	defer rows.Close()

	var active []membership.Profile
	for rows.Next() {
		var m membership.Member
		var status int
		if err := rows.Scan(&m.ID, &m.LastName, &m.FirstName, &m.Address, &status); err != nil {
			return nil, fmt.Errorf("scan active member: %w", err)
		}
		active = append(active, membership.Profile{
			ID:      m.ID,
			Name:    m.FullName(),
			Address: m.Address,
			Status:  membership.Status(status),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active members: %w", classify(err))
	}

	span.SetAttributes(attribute.Int("members.active", len(active)))
	return active, nil
}

// RecordLogins updates every logged-in member with one statement per batch.
func (t *tx) RecordLogins(ctx context.Context, logins []purchasing.Login) error {
	ctx, span := t.tracer.Start(ctx, "store.record_logins",
		trace.WithAttributes(attribute.Int("login.count", len(logins))),
	)
	defer span.End()

	return chunks(len(logins), func(lo, hi int) error {
		batch := logins[lo:hi]
		args := make([]any, 0, len(batch)*2)
		for _, l := range batch {
			args = append(args, l.MemberID, l.At)
		}

		_, err := t.tx.ExecContext(ctx, `
			UPDATE member
			SET last_login_at = v.login_at, updated_at = v.login_at
			FROM (VALUES `+placeholders(len(batch), 2, "bigint", "timestamp")+`) AS v(id, login_at)
			WHERE member.id = v.id
		`, args...)
		if err != nil {
			return fmt.Errorf("record logins: %w", classify(err))
		}
		return nil
	})
}

// InsertPurchase writes the purchase header and then its detail lines.
func (t *tx) InsertPurchase(ctx context.Context, p *purchasing.Purchase) error {
	ctx, span := t.tracer.Start(ctx, "store.insert_purchase",
		trace.WithAttributes(
			attribute.Int64("member.id", p.MemberID),
			attribute.Int("line.count", len(p.Lines)),
			attribute.Int("total.amount", p.TotalAmount),
		),
	)
	defer span.End()

	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO purchase
			(member_id, member_name, shipping_address, purchased_at, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.MemberID, p.MemberName, p.ShippingAddress, p.PurchasedAt, p.TotalAmount).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", classify(err))
	}

	if len(p.Lines) == 0 {
		return nil
	}

	args := make([]any, 0, len(p.Lines)*6)
	for _, l := range p.Lines {
		args = append(args, p.ID, l.ProductID, l.ProductName, l.UnitPrice, l.Quantity, l.Subtotal)
	}

	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO purchase_detail
			(purchase_id, food_id, food_name, unit_price, quantity, subtotal)
		VALUES `+placeholders(len(p.Lines), 6), args...)
	if err != nil {
		return fmt.Errorf("insert purchase %d lines: %w", p.ID, classify(err))
	}

	span.SetAttributes(attribute.Int64("purchase.id", p.ID))
	return nil
}
