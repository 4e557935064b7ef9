package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"shopsim/internal/membership"
)

func (t *tx) CountMembers(ctx context.Context) (int, error) {
	var n int
	if err := t.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM member`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", classify(err))
	}
	return n, nil
}

func (t *tx) FirstJoinDate(ctx context.Context) (time.Time, bool, error) {
	var first sql.NullTime
	if err := t.tx.QueryRowContext(ctx, `SELECT MIN(created_at) FROM member`).Scan(&first); err != nil {
		return time.Time{}, false, fmt.Errorf("query first join date: %w", classify(err))
	}
	if !first.Valid {
		return time.Time{}, false, nil
	}
	return membership.Date(first.Time), true, nil
}

func (t *tx) InsertMembers(ctx context.Context, members []*membership.Member) error {
	ctx, span := t.tracer.Start(ctx, "store.insert_members",
		trace.WithAttributes(attribute.Int("member.count", len(members))),
	)
	defer span.End()

	return chunks(len(members), func(lo, hi int) error {
		batch := members[lo:hi]
		args := make([]any, 0, len(batch)*9)
		for _, m := range batch {
			args = append(args,
				m.LastName,
				m.FirstName,
				m.BirthDate,
				m.Gender,
				m.Address,
				int(m.Status),
				m.LastLoginAt,
				m.CreatedAt,
				m.UpdatedAt,
			)
		}

		rows, err := t.tx.QueryContext(ctx, `
			INSERT INTO member
				(last_name, first_name, birth_date, gender, address, status,
				 last_login_at, created_at, updated_at)
			VALUES `+placeholders(len(batch), 9)+`
			RETURNING id
		`, args...)
		if err != nil {
			return fmt.Errorf("insert members: %w", classify(err))
		}
		defer rows.Close()

		if err := scanIDs(rows, len(batch), func(i int, id int64) { batch[i].ID = id }); err != nil {
			return fmt.Errorf("insert members: %w", err)
		}
		return nil
	})
}

// InsertLifecycleParams streams the rows through COPY.
func (t *tx) InsertLifecycleParams(ctx context.Context, params []membership.LifecycleParams) error {
	if len(params) == 0 {
		return nil
	}

	stmt, err := t.tx.PrepareContext(ctx, pq.CopyIn("member_property", "id", "to_paid_days", "to_sleep_days", "to_quit_days"))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", classify(err))
	}
	defer stmt.Close()

	for _, p := range params {
		if _, err := stmt.ExecContext(ctx, p.MemberID, nullInt(p.DaysToPaid), nullInt(p.DaysToSleep), nullInt(p.DaysToQuit)); err != nil {
			return fmt.Errorf("copy lifecycle params of member %d: %w", p.MemberID, classify(err))
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush lifecycle params: %w", classify(err))
	}
	return nil
}

func (t *tx) DuePromotions(ctx context.Context, day time.Time) ([]int64, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT m.id
		FROM member m
		JOIN member_property mp ON m.id = mp.id
		WHERE mp.to_paid_days IS NOT NULL
		  AND m.status = 0
		  AND m.created_at::date + mp.to_paid_days = $1::date
		ORDER BY m.id ASC
	`, membership.Date(day))
	if err != nil {
		return nil, fmt.Errorf("query due promotions: %w", classify(err))
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan due promotion: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due promotions: %w", classify(err))
	}
	return ids, nil
}

func (t *tx) PromoteMembers(ctx context.Context, ids []int64, day time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE member SET status = 1, paid_at = $1, updated_at = $1 WHERE id = ANY($2)`,
		membership.Date(day), pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("promote members: %w", classify(err))
	}
	return nil
}

func (t *tx) DueQuits(ctx context.Context, day time.Time) ([]membership.MemberStatus, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT m.id, m.status
		FROM member m
		JOIN member_property mp ON m.id = mp.id
		WHERE mp.to_quit_days IS NOT NULL
		  AND m.status != 9
		  AND m.created_at::date + mp.to_quit_days = $1::date
		ORDER BY m.id ASC
	`, membership.Date(day))
	if err != nil {
		return nil, fmt.Errorf("query due quits: %w", classify(err))
	}
	defer rows.Close()

	var due []membership.MemberStatus
	for rows.Next() {
		var ms membership.MemberStatus
		var status int
		if err := rows.Scan(&ms.MemberID, &status); err != nil {
			return nil, fmt.Errorf("scan due quit: %w", err)
		}
		ms.Status = membership.Status(status)
		due = append(due, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due quits: %w", classify(err))
	}
	return due, nil
}

func (t *tx) QuitMembers(ctx context.Context, ids []int64, day time.Time) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE member SET status = 9, quit_at = $1, updated_at = $1 WHERE id = ANY($2)`,
		membership.Date(day), pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("quit members: %w", classify(err))
	}
	return nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}
