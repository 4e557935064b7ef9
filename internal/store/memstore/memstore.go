// Package memstore keeps a whole simulation in process memory. It backs
// dry runs and tests, and follows the same day-level commit semantics as
// the Postgres store: a failed day leaves no trace.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"shopsim/internal/catalog"
	"shopsim/internal/membership"
	"shopsim/internal/purchasing"
	"shopsim/internal/store"
)

type state struct {
	categories []catalog.Category
	products   []catalog.Product
	members    []membership.Member
	index      map[int64]int
	params     map[int64]membership.LifecycleParams
	purchases  []purchasing.Purchase
	statusLog  []membership.StatusChange

	nextCategoryID int64
	nextProductID  int64
	nextMemberID   int64
	nextPurchaseID int64
}

func newState() *state {
	return &state{
		index:  make(map[int64]int),
		params: make(map[int64]membership.LifecycleParams),
	}
}

func (s *state) clone() *state {
	c := *s
	c.categories = slices.Clone(s.categories)
	c.products = slices.Clone(s.products)
	c.members = slices.Clone(s.members)
	c.purchases = slices.Clone(s.purchases)
	c.statusLog = slices.Clone(s.statusLog)
	c.index = make(map[int64]int, len(s.index))
	for k, v := range s.index {
		c.index[k] = v
	}
	c.params = make(map[int64]membership.LifecycleParams, len(s.params))
	for k, v := range s.params {
		c.params[k] = v
	}
	return &c
}

// Store is an in-memory store.Store.
type Store struct {
	mu    sync.Mutex
	state *state
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{state: newState()}
}

// Reset drops members, the catalog and everything hanging off them. ID
// counters keep running, as Postgres sequences do after a TRUNCATE.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := newState()
	fresh.nextCategoryID = s.state.nextCategoryID
	fresh.nextProductID = s.state.nextProductID
	fresh.nextMemberID = s.state.nextMemberID
	fresh.nextPurchaseID = s.state.nextPurchaseID
	s.state = fresh
	return nil
}

// InDay runs fn against a private copy of the state and publishes the copy
// only when fn succeeds.
func (s *Store) InDay(ctx context.Context, day time.Time, fn func(ctx context.Context, tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.state.clone()
	if err := fn(ctx, &tx{state: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

func (s *Store) Close() error { return nil }

// Products returns a copy of the catalog ordered by ID.
func (s *Store) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.products)
}

// Categories returns a copy of the stored categories.
func (s *Store) Categories() []catalog.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.categories)
}

// Members returns a copy of all members ordered by ID.
func (s *Store) Members() []membership.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.members)
}

// LifecycleParams returns the stored schedule of a member.
func (s *Store) LifecycleParams(memberID int64) (membership.LifecycleParams, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.params[memberID]
	return p, ok
}

// StatusLog returns a copy of the status change log in append order.
func (s *Store) StatusLog() []membership.StatusChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.statusLog)
}

// Purchases returns a copy of all purchases ordered by ID.
func (s *Store) Purchases() []purchasing.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.purchases)
}
