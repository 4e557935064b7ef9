// internal/purchasing/service.go
package purchasing

import (
	"context"
	"time"

	"shopsim/internal/membership"
)

// Repository defines the storage operations of the activity simulation.
type Repository interface {
	// ActiveMembers returns members that are neither quit nor dormant on day.
	ActiveMembers(ctx context.Context, day time.Time) ([]membership.Profile, error)
	// RecordLogins sets last_login_at and updated_at for each login.
	RecordLogins(ctx context.Context, logins []Login) error
	// InsertPurchase stores the purchase header and its lines together and
	// assigns the purchase ID in place.
	InsertPurchase(ctx context.Context, p *Purchase) error
}
