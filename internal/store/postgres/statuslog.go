package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shopsim/internal/membership"
)

// AppendStatusChanges appends to member_status_log. Rows are never updated
// or deleted afterwards.
func (t *tx) AppendStatusChanges(ctx context.Context, changes []membership.StatusChange) error {
	ctx, span := t.tracer.Start(ctx, "statuslog.append",
		trace.WithAttributes(attribute.Int("change.count", len(changes))),
	)
	defer span.End()

	if len(changes) == 0 {
		return nil
	}

	stmt, err := t.tx.PrepareContext(ctx, pq.CopyIn("member_status_log", "member_id", "status_before", "status_after", "changed_at"))
	if err != nil {
		return fmt.Errorf("prepare statement: %w", classify(err))
	}
	defer stmt.Close()

	transitions := make(map[string]int)
	for _, c := range changes {
		if _, err := stmt.ExecContext(ctx, c.MemberID, int(c.Before), int(c.After), c.ChangedAt); err != nil {
			return fmt.Errorf("append status change of member %d: %w", c.MemberID, classify(err))
		}
		transitions[c.Before.String()+"->"+c.After.String()]++
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush status changes: %w", classify(err))
	}

	for name, n := range transitions {
		span.AddEvent("statuslog.appended", trace.WithAttributes(
			attribute.String("transition", name),
			attribute.Int("count", n),
		))
	}
	return nil
}

// StatusHistory returns the status changes of a member in the order they
// were logged.
func (s *Store) StatusHistory(ctx context.Context, memberID int64) ([]membership.StatusChange, error) {
	ctx, span := s.tracer.Start(ctx, "statuslog.load",
		trace.WithAttributes(attribute.Int64("member.id", memberID)),
	)
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `
		SELECT member_id, status_before, status_after, changed_at
		FROM member_status_log
		WHERE member_id = $1
		ORDER BY changed_at ASC, status_after ASC
	`, memberID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("query status log: %w", classify(err)))
	}
	defer rows.Close()

	var changes []membership.StatusChange
	for rows.Next() {
		var c membership.StatusChange
		var before, after int
		if err := rows.Scan(&c.MemberID, &before, &after, &c.ChangedAt); err != nil {
			return nil, fail(span, fmt.Errorf("scan status change: %w", err))
		}
		c.Before = membership.Status(before)
		c.After = membership.Status(after)
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(span, fmt.Errorf("iterate status log: %w", classify(err)))
	}

	span.SetAttributes(attribute.Int("changes.loaded", len(changes)))
	return changes, nil
}
