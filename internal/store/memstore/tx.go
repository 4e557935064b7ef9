package memstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"shopsim/internal/catalog"
	"shopsim/internal/membership"
	"shopsim/internal/purchasing"
	"shopsim/internal/store"
)

type tx struct {
	state *state
}

func (t *tx) member(id int64) (*membership.Member, error) {
	i, ok := t.state.index[id]
	if !ok {
		return nil, fmt.Errorf("member %d not found: %w", id, store.ErrConstraint)
	}
	return &t.state.members[i], nil
}

func (t *tx) InsertCategories(ctx context.Context, categories []*catalog.Category) error {
	for _, c := range categories {
		t.state.nextCategoryID++
		c.ID = t.state.nextCategoryID
		t.state.categories = append(t.state.categories, *c)
	}
	return nil
}

func (t *tx) InsertProducts(ctx context.Context, products []*catalog.Product) error {
	for _, p := range products {
		if !slices.ContainsFunc(t.state.categories, func(c catalog.Category) bool { return c.ID == p.CategoryID }) {
			return fmt.Errorf("product %q references unknown category %d: %w", p.Name, p.CategoryID, store.ErrConstraint)
		}
	}
	for _, p := range products {
		t.state.nextProductID++
		p.ID = t.state.nextProductID
		t.state.products = append(t.state.products, *p)
	}
	return nil
}

func (t *tx) Products(ctx context.Context) ([]catalog.Product, error) {
	return slices.Clone(t.state.products), nil
}

func (t *tx) CountMembers(ctx context.Context) (int, error) {
	return len(t.state.members), nil
}

func (t *tx) FirstJoinDate(ctx context.Context) (time.Time, bool, error) {
	if len(t.state.members) == 0 {
		return time.Time{}, false, nil
	}
	first := t.state.members[0].CreatedAt
	for _, m := range t.state.members[1:] {
		if m.CreatedAt.Before(first) {
			first = m.CreatedAt
		}
	}
	return membership.Date(first), true, nil
}

func (t *tx) InsertMembers(ctx context.Context, members []*membership.Member) error {
	for _, m := range members {
		t.state.nextMemberID++
		m.ID = t.state.nextMemberID
		t.state.index[m.ID] = len(t.state.members)
		t.state.members = append(t.state.members, *m)
	}
	return nil
}

func (t *tx) InsertLifecycleParams(ctx context.Context, params []membership.LifecycleParams) error {
	for _, p := range params {
		if _, err := t.member(p.MemberID); err != nil {
			return err
		}
		if _, ok := t.state.params[p.MemberID]; ok {
			return fmt.Errorf("lifecycle params for member %d already exist: %w", p.MemberID, store.ErrConstraint)
		}
		t.state.params[p.MemberID] = p
	}
	return nil
}

func (t *tx) DuePromotions(ctx context.Context, day time.Time) ([]int64, error) {
	var ids []int64
	for i := range t.state.members {
		m := &t.state.members[i]
		if membership.PromotionDue(m, t.state.params[m.ID], day) {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

func (t *tx) PromoteMembers(ctx context.Context, ids []int64, day time.Time) error {
	at := membership.Date(day)
	for _, id := range ids {
		m, err := t.member(id)
		if err != nil {
			return err
		}
		m.Status = membership.StatusPaid
		m.PaidAt = &at
		m.UpdatedAt = at
	}
	return nil
}

func (t *tx) DueQuits(ctx context.Context, day time.Time) ([]membership.MemberStatus, error) {
	var due []membership.MemberStatus
	for i := range t.state.members {
		m := &t.state.members[i]
		if membership.QuitDue(m, t.state.params[m.ID], day) {
			due = append(due, membership.MemberStatus{MemberID: m.ID, Status: m.Status})
		}
	}
	return due, nil
}

func (t *tx) QuitMembers(ctx context.Context, ids []int64, day time.Time) error {
	at := membership.Date(day)
	for _, id := range ids {
		m, err := t.member(id)
		if err != nil {
			return err
		}
		m.Status = membership.StatusQuit
		m.QuitAt = &at
		m.UpdatedAt = at
	}
	return nil
}

func (t *tx) AppendStatusChanges(ctx context.Context, changes []membership.StatusChange) error {
	for _, c := range changes {
		if _, err := t.member(c.MemberID); err != nil {
			return err
		}
	}
	t.state.statusLog = append(t.state.statusLog, changes...)
	return nil
}

func (t *tx) ActiveMembers(ctx context.Context, day time.Time) ([]membership.Profile, error) {
	var active []membership.Profile
	for i := range t.state.members {
		m := &t.state.members[i]
		if m.Status == membership.StatusQuit {
			continue
		}
		p, ok := t.state.params[m.ID]
		if !ok || membership.IsDormant(day, m.CreatedAt, p.DaysToSleep) {
			continue
		}
		active = append(active, membership.Profile{
			ID:      m.ID,
			Name:    m.FullName(),
			Address: m.Address,
			Status:  m.Status,
		})
	}
	return active, nil
}

func (t *tx) RecordLogins(ctx context.Context, logins []purchasing.Login) error {
	for _, l := range logins {
		m, err := t.member(l.MemberID)
		if err != nil {
			return err
		}
		at := l.At
		m.LastLoginAt = &at
		m.UpdatedAt = at
	}
	return nil
}

func (t *tx) InsertPurchase(ctx context.Context, p *purchasing.Purchase) error {
	if _, err := t.member(p.MemberID); err != nil {
		return err
	}
	if len(p.Lines) == 0 {
		return fmt.Errorf("purchase for member %d has no lines: %w", p.MemberID, store.ErrConstraint)
	}
	t.state.nextPurchaseID++
	p.ID = t.state.nextPurchaseID

	stored := *p
	stored.Lines = append([]purchasing.Line(nil), p.Lines...)
	t.state.purchases = append(t.state.purchases, stored)
	return nil
}
