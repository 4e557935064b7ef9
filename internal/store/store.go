// internal/store/store.go
package store

import (
	"context"
	"errors"
	"time"

	"shopsim/internal/catalog"
	"shopsim/internal/membership"
	"shopsim/internal/purchasing"
)

var (
	// ErrUnavailable marks connectivity failures. It is never retried.
	ErrUnavailable = errors.New("store unavailable")
	// ErrConstraint marks constraint and data errors reported by the store.
	ErrConstraint = errors.New("store constraint violation")
)

// Tx is the set of operations available inside one unit of work.
type Tx interface {
	catalog.Repository
	membership.Repository
	purchasing.Repository
}

// Store is the backing storage of a simulation run.
type Store interface {
	// Reset removes all members, the catalog and everything that hangs off them.
	Reset(ctx context.Context) error

	// InDay runs fn as the unit of work of day. Everything fn writes is
	// committed when it returns nil and discarded when it returns an error.
	InDay(ctx context.Context, day time.Time, fn func(ctx context.Context, tx Tx) error) error

	Close() error
}
