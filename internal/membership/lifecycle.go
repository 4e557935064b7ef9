package membership

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Transitions summarizes the status changes applied on one day.
type Transitions struct {
	Promoted []int64
	Quit     []MemberStatus
}

// Changes returns the number of status changes.
func (t Transitions) Changes() int {
	return len(t.Promoted) + len(t.Quit)
}

// Evaluator replays each member's latent schedule against the simulated
// date and applies the transitions that fall due.
type Evaluator struct {
	logger *zap.Logger
}

// NewEvaluator creates a lifecycle evaluator.
func NewEvaluator(logger *zap.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

// Evaluate applies the promotions due on day, then the quits due on day.
// A member is only eligible on the exact day its offset lands on; there is
// no catch-up for missed days. Running Evaluate twice for the same day
// applies nothing the second time since promoted and quit members no longer
// match the status guards.
func (e *Evaluator) Evaluate(ctx context.Context, repo Repository, day time.Time) (Transitions, error) {
	day = Date(day)
	var result Transitions

	promoted, err := repo.DuePromotions(ctx, day)
	if err != nil {
		return result, fmt.Errorf("failed to find due promotions: %w", err)
	}
	if len(promoted) > 0 {
		if err := repo.PromoteMembers(ctx, promoted, day); err != nil {
			return result, fmt.Errorf("failed to promote members: %w", err)
		}
		changes := make([]StatusChange, 0, len(promoted))
		for _, id := range promoted {
			changes = append(changes, StatusChange{MemberID: id, Before: StatusFree, After: StatusPaid, ChangedAt: day})
		}
		if err := repo.AppendStatusChanges(ctx, changes); err != nil {
			return result, fmt.Errorf("failed to log promotions: %w", err)
		}
		result.Promoted = promoted
	}

	quitting, err := repo.DueQuits(ctx, day)
	if err != nil {
		return result, fmt.Errorf("failed to find due quits: %w", err)
	}
	if len(quitting) > 0 {
		ids := make([]int64, 0, len(quitting))
		changes := make([]StatusChange, 0, len(quitting))
		for _, q := range quitting {
			ids = append(ids, q.MemberID)
			changes = append(changes, StatusChange{MemberID: q.MemberID, Before: q.Status, After: StatusQuit, ChangedAt: day})
		}
		if err := repo.QuitMembers(ctx, ids, day); err != nil {
			return result, fmt.Errorf("failed to quit members: %w", err)
		}
		if err := repo.AppendStatusChanges(ctx, changes); err != nil {
			return result, fmt.Errorf("failed to log quits: %w", err)
		}
		result.Quit = quitting
	}

	if result.Changes() > 0 {
		e.logger.Debug("Applied status transitions",
			zap.Time("date", day),
			zap.Int("promoted", len(result.Promoted)),
			zap.Int("quit", len(result.Quit)),
		)
	}

	return result, nil
}
